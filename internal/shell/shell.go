// Package shell runs the interactive session: authenticate once, then
// read, parse, dispatch and render until exit.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	context_ "github.com/mkrupp/todoshell/internal/infra/context"
	"github.com/mkrupp/todoshell/internal/infra/logging"
	"github.com/mkrupp/todoshell/internal/repo/history"
	"github.com/mkrupp/todoshell/internal/shell/command"
	"github.com/mkrupp/todoshell/internal/svc/todosvc"
)

// Shell drives one interactive session over the access layer. Data flows
// strictly downward: the shell calls the grammar and the service, never
// the other way around.
type Shell struct {
	svc    *todosvc.TodoService
	hist   history.Repository // nil disables history recording
	term   *Terminal
	render *Renderer
	log    logging.Logger
}

// New creates a Shell over the given service, history store and terminal.
// hist may be nil to disable history recording.
func New(svc *todosvc.TodoService, hist history.Repository, term *Terminal) *Shell {
	return &Shell{
		svc:    svc,
		hist:   hist,
		term:   term,
		render: NewRenderer(term.out),
		log:    logging.GetLogger("shell"),
	}
}

// Login prompts for credentials and authenticates exactly once. On
// success it returns a context carrying the session; a failed attempt is
// fatal to the session, there is no retry loop.
func (s *Shell) Login(ctx context.Context) (context.Context, error) {
	username, err := s.term.ReadLine("Enter username: ")
	if err != nil {
		return nil, fmt.Errorf("read username: %w", err)
	}

	password, err := s.term.ReadSecret("Enter password: ")
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}

	userID, err := s.svc.Authenticate(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	// Re-read the username so the prompt shows the stored spelling.
	name, err := s.svc.Username(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get username: %w", err)
	}

	ctx = context_.WithSession(ctx, context_.Session{UserID: userID, Username: name})

	s.log.InfoContext(ctx, "session started")

	return ctx, nil
}

// Run executes the session loop until the exit command or end of input.
// Every command-level error is rendered and the loop continues; the
// authenticated session is never affected by a failed command.
func (s *Shell) Run(ctx context.Context) error {
	session, ok := context_.SessionFromContext(ctx)
	if !ok {
		return errors.New("no session in context")
	}

	if s.hist != nil {
		if seq, err := s.hist.NextSeq(ctx); err == nil {
			s.log.DebugContext(ctx, "history loaded", "nextSeq", seq)
		}
	}

	prompt := session.Username + "> "

	for {
		line, err := s.term.ReadLine(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.DebugContext(ctx, "input exhausted")

				return nil
			}

			return fmt.Errorf("read line: %w", err)
		}

		s.record(ctx, line)

		cmdCtx := context_.WithTraceID(ctx, uuid.NewString())

		cmd, err := command.Parse(line, s.term)
		if err != nil {
			s.render.Error(err)

			continue
		}

		if done := s.dispatch(cmdCtx, session, cmd); done {
			return nil
		}
	}
}

// record appends the submitted line to the history store. History never
// affects command semantics; failures are logged and ignored.
func (s *Shell) record(ctx context.Context, line string) {
	if s.hist == nil || line == "" {
		return
	}

	if _, err := s.hist.Append(ctx, line); err != nil {
		s.log.WarnContext(ctx, "history append failed", "error", err)
	}
}

// dispatch executes one parsed command against the access layer and
// renders the outcome. Reports whether the session should end.
//
//nolint:cyclop,funlen
func (s *Shell) dispatch(ctx context.Context, session context_.Session, cmd command.Command) bool {
	switch cmd := cmd.(type) {
	case command.CreateUser:
		created, err := s.svc.CreateUser(ctx, session.UserID, cmd.Username, cmd.Password)
		if err != nil {
			s.render.Error(err)
		} else {
			s.render.UserCreated(created)
		}

	case command.ChangePassword:
		if err := s.svc.ChangePassword(ctx, session.UserID, cmd.OldPassword, cmd.NewPassword); err != nil {
			s.render.Error(err)
		} else {
			s.render.PasswordChanged()
		}

	case command.CreateTodo:
		created, err := s.svc.CreateTodo(ctx, session.UserID, cmd.Description)
		if err != nil {
			s.render.Error(err)
		} else {
			s.render.TodoCreated(created)
		}

	case command.SearchTodo:
		todos, err := s.svc.SearchTodos(ctx, session.UserID, cmd.Substring)
		if err != nil {
			s.render.Error(err)
		} else {
			s.render.Todos(todos, true)
		}

	case command.EditTodo:
		if err := s.svc.UpdateTodo(ctx, session.UserID, cmd.ID, cmd.Description); err != nil {
			s.render.Error(err)
		} else {
			s.render.TodoEdited()
		}

	case command.DeleteTodo:
		if err := s.svc.DeleteTodo(ctx, session.UserID, cmd.ID); err != nil {
			s.render.Error(err)
		} else {
			s.render.TodoDeleted()
		}

	case command.MarkTodoAsDone:
		if err := s.svc.MarkDone(ctx, session.UserID, cmd.ID); err != nil {
			s.render.Error(err)
		} else {
			s.render.TodoMarkedDone()
		}

	case command.ListAllTodos:
		todos, err := s.svc.ListTodos(ctx, session.UserID, false)
		if err != nil {
			s.render.Error(err)
		} else {
			s.render.Todos(todos, true)
		}

	case command.ListAllPendingTodos:
		todos, err := s.svc.ListTodos(ctx, session.UserID, true)
		if err != nil {
			s.render.Error(err)
		} else {
			s.render.Todos(todos, false)
		}

	case command.Help:
		s.render.Help()

	case command.Exit:
		s.render.Exiting()
		s.log.InfoContext(ctx, "session ended")

		return true
	}

	return false
}
