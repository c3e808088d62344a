package command

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mkrupp/todoshell/internal/shell/token"
)

var (
	// ErrEmptyInput is returned when the line contains no tokens at all.
	ErrEmptyInput = errors.New("no command found")
	// ErrUnknownCommand is returned when the verb is not in the command table.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrUsage is returned on wrong arity or an unparsable argument.
	ErrUsage = errors.New("usage")
)

// SecretReader supplies masked input lines for password fields that are
// prompted for during parsing.
type SecretReader interface {
	ReadSecret(prompt string) (string, error)
}

// Parse tokenizes one input line and validates it against the command
// table. The first token is the verb (case-sensitive, long form or short
// alias), the remaining tokens are its arguments; each verb requires an
// exact argument count and integer ids must parse. change-password reads
// its old and new password through secrets as part of parsing.
//
//nolint:cyclop,funlen
func Parse(line string, secrets SecretReader) (Command, error) {
	tokens := token.Split(line)
	if len(tokens) == 0 {
		return nil, ErrEmptyInput
	}

	verb, args := tokens[0], tokens[1:]

	switch verb {
	case "create-user", "cu":
		if err := requireArgs(verb, args, 2); err != nil {
			return nil, err
		}

		return CreateUser{Username: args[0], Password: args[1]}, nil

	case "change-password", "cp":
		// The single argument is a confirmation token; its value is not used.
		if err := requireArgs(verb, args, 1); err != nil {
			return nil, err
		}

		oldPassword, err := secrets.ReadSecret("Enter old password: ")
		if err != nil {
			return nil, fmt.Errorf("read old password: %w", err)
		}

		newPassword, err := secrets.ReadSecret("Enter new password: ")
		if err != nil {
			return nil, fmt.Errorf("read new password: %w", err)
		}

		return ChangePassword{OldPassword: oldPassword, NewPassword: newPassword}, nil

	case "create-todo", "ct":
		if err := requireArgs(verb, args, 1); err != nil {
			return nil, err
		}

		return CreateTodo{Description: args[0]}, nil

	case "search-todo", "st":
		if err := requireArgs(verb, args, 1); err != nil {
			return nil, err
		}

		return SearchTodo{Substring: args[0]}, nil

	case "edit-todo", "et":
		if err := requireArgs(verb, args, 2); err != nil {
			return nil, err
		}

		id, err := parseID(verb, args[0])
		if err != nil {
			return nil, err
		}

		return EditTodo{ID: id, Description: args[1]}, nil

	case "delete-todo", "dt":
		if err := requireArgs(verb, args, 1); err != nil {
			return nil, err
		}

		id, err := parseID(verb, args[0])
		if err != nil {
			return nil, err
		}

		return DeleteTodo{ID: id}, nil

	case "mark-todo-as-done", "md":
		if err := requireArgs(verb, args, 1); err != nil {
			return nil, err
		}

		id, err := parseID(verb, args[0])
		if err != nil {
			return nil, err
		}

		return MarkTodoAsDone{ID: id}, nil

	case "list-all-todos", "lt":
		if err := requireArgs(verb, args, 0); err != nil {
			return nil, err
		}

		return ListAllTodos{}, nil

	case "list-all-pending-todos", "lp":
		if err := requireArgs(verb, args, 0); err != nil {
			return nil, err
		}

		return ListAllPendingTodos{}, nil

	case "help":
		if err := requireArgs(verb, args, 0); err != nil {
			return nil, err
		}

		return Help{}, nil

	case "exit":
		if err := requireArgs(verb, args, 0); err != nil {
			return nil, err
		}

		return Exit{}, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, verb)
	}
}

func requireArgs(verb string, args []string, want int) error {
	if len(args) != want {
		plural := "s"
		if want == 1 {
			plural = ""
		}

		return fmt.Errorf("%w: %s command takes %d argument%s", ErrUsage, verb, want, plural)
	}

	return nil
}

func parseID(verb, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s id must be an integer, got %q", ErrUsage, verb, arg)
	}

	return id, nil
}
