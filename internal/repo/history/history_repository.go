// Package history persists the shell's command history between runs.
package history

import (
	"context"
	"errors"
)

// ErrNoEntry is returned when a history lookup matches no entry.
var ErrNoEntry = errors.New("no history entry")

// Entry is one recorded command line.
type Entry struct {
	Seq  int    // Monotonic sequence number, store-assigned
	Text string // The submitted line, verbatim
}

// Repository defines the interface for command history persistence.
type Repository interface {
	// Append records a submitted line and returns its sequence number.
	Append(ctx context.Context, text string) (int, error)

	// Entry returns the entry with the given sequence number.
	// Returns ErrNoEntry if no such entry exists.
	Entry(ctx context.Context, seq int) (Entry, error)

	// Entries returns all entries with from <= seq < upto, in order.
	Entries(ctx context.Context, from, upto int) ([]Entry, error)

	// NextSeq returns the sequence number the next Append will use.
	NextSeq(ctx context.Context) (int, error)

	// Close releases any resources held by the repository.
	Close() error
}

// RepositoryFactory is a function that creates a new Repository instance.
// Returns an error if initialization fails.
type RepositoryFactory func() (Repository, error)
