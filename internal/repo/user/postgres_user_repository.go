package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/infra/logging"
)

// pgUniqueViolation is the Postgres error code for unique_violation.
const pgUniqueViolation = "23505"

// PostgresUserRepositoryConfig holds configuration for the Postgres user repository.
type PostgresUserRepositoryConfig struct {
	// DatabaseURL is the Postgres connection string
	DatabaseURL string `env:"DATABASE_URL" default:"postgres://localhost:5432/todoshell?sslmode=disable"`
}

// PostgresUserRepository implements Repository using Postgres as the
// storage backend.
type PostgresUserRepository struct {
	db  *sql.DB
	log logging.Logger
}

var _ Repository = (*PostgresUserRepository)(nil)

// PostgresUserRepositoryFactory creates a factory function that returns a
// new PostgresUserRepository. The factory function implements the
// RepositoryFactory type.
func PostgresUserRepositoryFactory(cfg PostgresUserRepositoryConfig) RepositoryFactory {
	return func() (Repository, error) {
		return NewPostgresUserRepository(cfg)
	}
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given configuration. It initializes the database connection and creates
// the schema if needed. Returns an error if connection or initialization fails.
func NewPostgresUserRepository(cfg PostgresUserRepositoryConfig) (*PostgresUserRepository, error) {
	log := logging.GetLogger("repo.user.postgres_user_repository")

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         SERIAL PRIMARY KEY,
			username   TEXT   UNIQUE NOT NULL,
			password   TEXT   NOT NULL,
			created_at BIGINT NOT NULL
		)
	`); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &PostgresUserRepository{
		db:  db,
		log: log,
	}, nil
}

// CreateUser implements Repository.CreateUser using Postgres.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, username, password string) (*domain.User, error) {
	createdAt := time.Now().Unix()

	var id int64

	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, password, created_at) VALUES ($1, $2, $3) RETURNING id",
		username,
		password,
		createdAt,
	).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			err = errors.Join(domain.ErrUserAlreadyExists, err)
		}

		return nil, fmt.Errorf("insert user: %w", err)
	}

	return &domain.User{
		ID:        id,
		Username:  username,
		Password:  password,
		CreatedAt: createdAt,
	}, nil
}

// GetByCredentials implements Repository.GetByCredentials using Postgres.
func (r *PostgresUserRepository) GetByCredentials(
	ctx context.Context,
	username, password string,
) (*domain.User, bool, error) {
	var user domain.User

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE username = $1 AND password = $2",
		username,
		password,
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return &user, true, nil
}

// GetByID implements Repository.GetByID using Postgres.
func (r *PostgresUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, bool, error) {
	var user domain.User

	err := r.db.QueryRowContext(ctx,
		"SELECT id, username, password, created_at FROM users WHERE id = $1",
		id,
	).Scan(&user.ID, &user.Username, &user.Password, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("query user: %w", err)
	}

	return &user, true, nil
}

// UpdatePassword implements Repository.UpdatePassword using Postgres.
func (r *PostgresUserRepository) UpdatePassword(
	ctx context.Context,
	userID int64,
	oldPassword, newPassword string,
) error {
	var matched int64

	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM users WHERE id = $1 AND password = $2",
		userID,
		oldPassword,
	).Scan(&matched)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("match old password: %w", domain.ErrUserNotFound)
		}

		return fmt.Errorf("query user: %w", err)
	}

	// The predicate matches the requesting row and the superuser row.
	if _, err := r.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE id = $2 OR id = $3",
		newPassword,
		userID,
		domain.SuperuserID,
	); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// Close implements Repository.Close by closing the database connection.
func (r *PostgresUserRepository) Close() error {
	if err := r.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
