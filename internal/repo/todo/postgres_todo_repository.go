package todo

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the postgres driver

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/infra/logging"
)

// PostgresTodoRepositoryConfig holds configuration for the Postgres todo repository.
type PostgresTodoRepositoryConfig struct {
	// DatabaseURL is the Postgres connection string
	DatabaseURL string `env:"DATABASE_URL" default:"postgres://localhost:5432/todoshell?sslmode=disable"`
}

// PostgresTodoRepository implements Repository using Postgres as the
// storage backend.
type PostgresTodoRepository struct {
	db  *sql.DB
	log logging.Logger
}

var _ Repository = (*PostgresTodoRepository)(nil)

// PostgresTodoRepositoryFactory creates a factory function that returns a
// new PostgresTodoRepository. The factory function implements the
// RepositoryFactory type.
func PostgresTodoRepositoryFactory(cfg PostgresTodoRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewPostgresTodoRepository(cfg)
	}
}

// NewPostgresTodoRepository creates a new PostgresTodoRepository with the
// given configuration. It initializes the database connection and creates
// the schema if needed. Returns an error if connection or initialization fails.
func NewPostgresTodoRepository(cfg PostgresTodoRepositoryConfig) (*PostgresTodoRepository, error) {
	log := logging.GetLogger("repo.todo.postgres_todo_repository")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id          SERIAL  PRIMARY KEY,
			description TEXT    NOT NULL,
			completed   BOOLEAN NOT NULL DEFAULT FALSE,
			user_id     INTEGER NOT NULL REFERENCES users (id)
		)
	`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresTodoRepository{
		db:  db,
		log: log,
	}, nil
}

// Create implements Repository.Create using Postgres.
func (r *PostgresTodoRepository) Create(
	ctx context.Context,
	userID int64,
	description string,
) (*domain.Todo, error) {
	var id int64

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO todos (description, completed, user_id) VALUES ($1, FALSE, $2) RETURNING id",
		description,
		userID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	return &domain.Todo{
		ID:          id,
		Description: description,
		Completed:   false,
		UserID:      userID,
	}, nil
}

// Update implements Repository.Update using Postgres.
func (r *PostgresTodoRepository) Update(ctx context.Context, userID, id int64, description string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE todos SET description = $1 WHERE id = $2 AND user_id = $3",
		description,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	return requireMatch(result)
}

// Delete implements Repository.Delete using Postgres.
func (r *PostgresTodoRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = $1 AND user_id = $2",
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	return requireMatch(result)
}

// MarkDone implements Repository.MarkDone using Postgres.
func (r *PostgresTodoRepository) MarkDone(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE todos SET completed = TRUE WHERE id = $1 AND user_id = $2",
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark todo done: %w", err)
	}

	return requireMatch(result)
}

// List implements Repository.List using Postgres.
func (r *PostgresTodoRepository) List(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Todo, error) {
	query := "SELECT id, description, completed, user_id FROM todos WHERE user_id = $1"
	if pendingOnly {
		query += " AND completed = FALSE"
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	return collectTodos(rows)
}

// Search implements Repository.Search using Postgres. The substring is
// wildcard-wrapped here and passed as a bind parameter.
func (r *PostgresTodoRepository) Search(ctx context.Context, userID int64, substring string) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, description, completed, user_id FROM todos"+
			" WHERE user_id = $1 AND description LIKE $2 ORDER BY id",
		userID,
		"%"+substring+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	return collectTodos(rows)
}

// Close implements Repository.Close by closing the database connection.
func (r *PostgresTodoRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
