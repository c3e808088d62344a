package user

import (
	"context"

	"github.com/mkrupp/todoshell/internal/domain"
)

// Repository defines the interface for user data persistence.
type Repository interface {
	// CreateUser adds a new user and returns the stored record including
	// its assigned id. Returns ErrUserAlreadyExists if the username is taken.
	CreateUser(ctx context.Context, username, password string) (*domain.User, error)

	// GetByCredentials retrieves a user by exact username and password
	// match in a single query, so an unknown username and a wrong password
	// are indistinguishable to the caller.
	// Returns the user and true if found, or nil and false if not found.
	GetByCredentials(ctx context.Context, username, password string) (*domain.User, bool, error)

	// GetByID retrieves a user by id.
	// Returns the user and true if found, or nil and false if not found.
	GetByID(ctx context.Context, id int64) (*domain.User, bool, error)

	// UpdatePassword finds the row matching (userID, oldPassword) and, if
	// present, sets the new password on every row whose id equals userID
	// or equals the superuser id. Callers must not assume the superuser
	// row is untouched.
	// Returns ErrUserNotFound if no (userID, oldPassword) row matches.
	UpdatePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
