// Package command maps tokenized input lines onto the shell's fixed set
// of typed commands.
package command

// Command is one fully validated shell command. A failed parse never
// produces a Command with partially filled fields.
type Command interface {
	isCommand()
}

// CreateUser creates a new user account (superuser only).
type CreateUser struct {
	Username string
	Password string
}

// ChangePassword changes the session user's password. Both passwords are
// collected by masked prompts during parsing, not from the command line.
type ChangePassword struct {
	OldPassword string
	NewPassword string
}

// CreateTodo creates a new pending todo.
type CreateTodo struct {
	Description string
}

// SearchTodo lists todos whose description contains a substring.
type SearchTodo struct {
	Substring string
}

// EditTodo replaces a todo's description.
type EditTodo struct {
	ID          int64
	Description string
}

// DeleteTodo removes a todo.
type DeleteTodo struct {
	ID int64
}

// MarkTodoAsDone marks a todo completed.
type MarkTodoAsDone struct {
	ID int64
}

// ListAllTodos lists every todo of the session user.
type ListAllTodos struct{}

// ListAllPendingTodos lists the session user's pending todos.
type ListAllPendingTodos struct{}

// Help prints the command reference.
type Help struct{}

// Exit ends the session.
type Exit struct{}

func (CreateUser) isCommand()          {}
func (ChangePassword) isCommand()      {}
func (CreateTodo) isCommand()          {}
func (SearchTodo) isCommand()          {}
func (EditTodo) isCommand()            {}
func (DeleteTodo) isCommand()          {}
func (MarkTodoAsDone) isCommand()      {}
func (ListAllTodos) isCommand()        {}
func (ListAllPendingTodos) isCommand() {}
func (Help) isCommand()                {}
func (Exit) isCommand()                {}
