package todo

import (
	"context"

	"github.com/mkrupp/todoshell/internal/domain"
)

// Repository defines the interface for todo data persistence. Every
// operation is owner-scoped: the userID is part of the filter predicate,
// so a todo owned by another user behaves exactly like a missing one.
type Repository interface {
	// Create inserts a new pending todo for the given owner and returns
	// the stored record including its assigned id.
	Create(ctx context.Context, userID int64, description string) (*domain.Todo, error)

	// Update replaces the description of the todo matching (id, userID).
	// Returns ErrTodoNotFound if no such row exists.
	Update(ctx context.Context, userID, id int64, description string) error

	// Delete removes the todo matching (id, userID).
	// Returns ErrTodoNotFound if no such row exists.
	Delete(ctx context.Context, userID, id int64) error

	// MarkDone sets completed on the todo matching (id, userID).
	// Returns ErrTodoNotFound if no such row exists.
	MarkDone(ctx context.Context, userID, id int64) error

	// List returns the owner's todos in id order, optionally restricted
	// to pending ones.
	List(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Todo, error)

	// Search returns the owner's todos whose description contains the
	// given substring (case-sensitive). An empty result is not an error.
	Search(ctx context.Context, userID int64, substring string) ([]domain.Todo, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
