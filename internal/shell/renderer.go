package shell

import (
	"fmt"
	"io"

	"github.com/mkrupp/todoshell/internal/domain"
)

// Renderer writes one line per user-visible event.
type Renderer struct {
	out io.Writer
}

// NewRenderer creates a Renderer writing to out.
func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) line(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

// UserCreated reports a successful create-user.
func (r *Renderer) UserCreated(user *domain.User) {
	r.line("User with id %d created successfully", user.ID)
}

// PasswordChanged reports a successful change-password.
func (r *Renderer) PasswordChanged() {
	r.line("Password changed successfully")
}

// TodoCreated reports a successful create-todo.
func (r *Renderer) TodoCreated(todo *domain.Todo) {
	r.line("Todo with id %d created successfully", todo.ID)
}

// TodoEdited reports a successful edit-todo.
func (r *Renderer) TodoEdited() {
	r.line("Todo edited successfully")
}

// TodoDeleted reports a successful delete-todo.
func (r *Renderer) TodoDeleted() {
	r.line("Todo deleted successfully")
}

// TodoMarkedDone reports a successful mark-todo-as-done.
func (r *Renderer) TodoMarkedDone() {
	r.line("Todo marked as done successfully")
}

// Todos renders a list of todos, optionally preceded by a count line.
func (r *Renderer) Todos(todos []domain.Todo, withCount bool) {
	if withCount {
		r.line("Found %d todos", len(todos))
	}

	for _, todo := range todos {
		r.line("%s", todo)
	}
}

// Exiting reports session termination.
func (r *Renderer) Exiting() {
	r.line("Exiting")
}

// Error reports any command-level failure as a single line.
func (r *Renderer) Error(err error) {
	r.line("Error: %v", err)
}

// Help prints the command reference.
func (r *Renderer) Help() {
	r.line("Commands:")
	r.line("create-user <username> <password> (cu)")
	r.line("change-password <username> (cp; prompts for old and new password)")
	r.line("create-todo <description> (ct)")
	r.line("search-todo <substring> (st)")
	r.line("edit-todo <id> <description> (et)")
	r.line("delete-todo <id> (dt)")
	r.line("mark-todo-as-done <id> (md)")
	r.line("list-all-todos (lt)")
	r.line("list-all-pending-todos (lp)")
	r.line("help")
	r.line("exit")
}
