package todo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/infra/logging"
)

// SQLiteTodoRepositoryConfig holds configuration for the SQLite todo repository.
type SQLiteTodoRepositoryConfig struct {
	// DatabasePath is the filesystem path to the SQLite database file
	DatabasePath string `env:"DATABASE_PATH" default:"var/storage/todoshell.db"`
}

// SQLiteTodoRepository implements Repository using SQLite as the storage backend.
type SQLiteTodoRepository struct {
	db        *sql.DB
	log       logging.Logger
	writeLock *sync.Mutex // go-sqlite does not support concurrent writes
}

var _ Repository = (*SQLiteTodoRepository)(nil)

// SQLiteTodoRepositoryFactory creates a factory function that returns a new
// SQLiteTodoRepository. The factory function implements the RepositoryFactory type.
func SQLiteTodoRepositoryFactory(cfg SQLiteTodoRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewSQLiteTodoRepository(cfg)
	}
}

// NewSQLiteTodoRepository creates a new SQLiteTodoRepository with the given
// configuration. It initializes the database connection and creates the
// schema if needed. Returns an error if connection or initialization fails.
func NewSQLiteTodoRepository(cfg SQLiteTodoRepositoryConfig) (*SQLiteTodoRepository, error) {
	log := logging.GetLogger("repo.todo.sqlite_todo_repository").With(
		logging.Group("db", "path", cfg.DatabasePath),
	)

	db, err := sql.Open("sqlite", cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := initializeTodoDB(db); err != nil {
		return nil, fmt.Errorf("initialize db: %w", err)
	}

	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	// Substring search is case-sensitive; sqlite LIKE is not by default.
	if _, err := db.Exec("PRAGMA case_sensitive_like = ON"); err != nil {
		return nil, fmt.Errorf("set case sensitive like: %w", err)
	}

	return &SQLiteTodoRepository{
		db:        db,
		log:       log,
		writeLock: new(sync.Mutex),
	}, nil
}

func initializeTodoDB(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS todos (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			description TEXT    NOT NULL,
			completed   INTEGER NOT NULL DEFAULT 0,
			user_id     INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	return nil
}

// Create implements Repository.Create using SQLite.
func (r *SQLiteTodoRepository) Create(
	ctx context.Context,
	userID int64,
	description string,
) (*domain.Todo, error) {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO todos (description, completed, user_id) VALUES (?, 0, ?)",
		description,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return &domain.Todo{
		ID:          id,
		Description: description,
		Completed:   false,
		UserID:      userID,
	}, nil
}

// Update implements Repository.Update using SQLite.
func (r *SQLiteTodoRepository) Update(ctx context.Context, userID, id int64, description string) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	result, err := r.db.ExecContext(ctx,
		"UPDATE todos SET description = ? WHERE id = ? AND user_id = ?",
		description,
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	return requireMatch(result)
}

// Delete implements Repository.Delete using SQLite.
func (r *SQLiteTodoRepository) Delete(ctx context.Context, userID, id int64) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	result, err := r.db.ExecContext(ctx,
		"DELETE FROM todos WHERE id = ? AND user_id = ?",
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	return requireMatch(result)
}

// MarkDone implements Repository.MarkDone using SQLite.
func (r *SQLiteTodoRepository) MarkDone(ctx context.Context, userID, id int64) error {
	r.writeLock.Lock()
	defer r.writeLock.Unlock()

	result, err := r.db.ExecContext(ctx,
		"UPDATE todos SET completed = 1 WHERE id = ? AND user_id = ?",
		id,
		userID,
	)
	if err != nil {
		return fmt.Errorf("mark todo done: %w", err)
	}

	return requireMatch(result)
}

// List implements Repository.List using SQLite.
func (r *SQLiteTodoRepository) List(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Todo, error) {
	query := "SELECT id, description, completed, user_id FROM todos WHERE user_id = ?"
	if pendingOnly {
		query += " AND completed = 0"
	}

	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	return collectTodos(rows)
}

// Search implements Repository.Search using SQLite. The substring is
// wildcard-wrapped here and passed as a bind parameter.
func (r *SQLiteTodoRepository) Search(ctx context.Context, userID int64, substring string) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, description, completed, user_id FROM todos"+
			" WHERE user_id = ? AND description LIKE ? ORDER BY id",
		userID,
		"%"+substring+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}

	return collectTodos(rows)
}

// Close implements Repository.Close by closing the database connection.
func (r *SQLiteTodoRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}

func requireMatch(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return domain.ErrTodoNotFound
	}

	return nil
}

func collectTodos(rows *sql.Rows) (_ []domain.Todo, err error) {
	defer func() {
		err = errors.Join(err, rows.Close())
	}()

	var todos []domain.Todo

	for rows.Next() {
		var todo domain.Todo

		if err := rows.Scan(&todo.ID, &todo.Description, &todo.Completed, &todo.UserID); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}

		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	return todos, nil
}
