package domain

import (
	"errors"
	"fmt"
)

// ErrTodoNotFound is returned when a todo-scoped operation matches no row.
// The same error covers ids that never existed and ids owned by another
// user, so callers cannot probe foreign ownership.
var ErrTodoNotFound = errors.New("todo not found")

// Todo is a single todo item. The owner is fixed at creation and every
// operation on the item is filtered by it.
type Todo struct {
	ID          int64  // Store-assigned identifier
	Description string // Free-text description
	Completed   bool   // False until marked done
	UserID      int64  // Owning user, never changed
}

// String renders the todo as a single display line.
func (t Todo) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}

	return fmt.Sprintf("#%d [%s] %s", t.ID, mark, t.Description)
}
