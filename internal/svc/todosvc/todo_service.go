// Package todosvc is the access layer of the shell: every operation runs
// under the authenticated user id of the session and enforces ownership
// scoping and the superuser rules.
package todosvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/infra/logging"
	"github.com/mkrupp/todoshell/internal/repo/todo"
	"github.com/mkrupp/todoshell/internal/repo/user"
)

// TodoService provides authentication, user management and todo operations.
type TodoService struct {
	UserRepo user.Repository
	TodoRepo todo.Repository
	Log      logging.Logger
}

// NewTodoService creates a new TodoService from the given repository
// factories. Returns an error if either repository cannot be created.
func NewTodoService(userFactory user.RepositoryFactory, todoFactory todo.RepositoryFactory) (*TodoService, error) {
	log := logging.GetLogger("svc.todosvc.todo_service")

	userRepo, err := userFactory()
	if err != nil {
		return nil, fmt.Errorf("new user repo: %w", err)
	}

	todoRepo, err := todoFactory()
	if err != nil {
		return nil, fmt.Errorf("new todo repo: %w", err)
	}

	return &TodoService{
		UserRepo: userRepo,
		TodoRepo: todoRepo,
		Log:      log,
	}, nil
}

// Authenticate checks the given credentials and returns the user id on
// success. Unknown usernames and wrong passwords produce the same
// ErrInvalidCredentials, so usernames cannot be enumerated.
func (s *TodoService) Authenticate(ctx context.Context, username, password string) (_ int64, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.WarnContext(ctx, "authentication failed", "error", err)
		} else {
			log.DebugContext(ctx, "authenticated")
		}
	}()

	found, ok, err := s.UserRepo.GetByCredentials(ctx, username, password)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	} else if !ok {
		return 0, domain.ErrInvalidCredentials
	}

	return found.ID, nil
}

// EnsureSuperuser creates the superuser account with the given credentials
// if no user exists yet, so a fresh store has someone able to log in.
// Existing stores are left untouched.
func (s *TodoService) EnsureSuperuser(ctx context.Context, username, password string) error {
	_, ok, err := s.UserRepo.GetByID(ctx, domain.SuperuserID)
	if err != nil {
		return fmt.Errorf("get superuser: %w", err)
	}

	if ok {
		return nil
	}

	created, err := s.UserRepo.CreateUser(ctx, username, password)
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}

	s.Log.InfoContext(ctx, "superuser created",
		logging.Group("user", "id", created.ID, "username", created.Username))

	return nil
}

// CreateUser creates a new user account. Only the superuser may do this;
// any other requesting id fails with ErrUnauthorized before the store is
// touched. Duplicate usernames surface the store's uniqueness error.
func (s *TodoService) CreateUser(
	ctx context.Context,
	requestingID int64,
	username, password string,
) (_ *domain.User, err error) {
	log := s.Log.With(logging.Group("user", "username", username))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "create user failed", "error", err)
		} else {
			log.DebugContext(ctx, "user created")
		}
	}()

	if requestingID != domain.SuperuserID {
		return nil, fmt.Errorf("requesting user %d: %w", requestingID, domain.ErrUnauthorized)
	}

	created, err := s.UserRepo.CreateUser(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return created, nil
}

// ChangePassword updates the requesting user's password after verifying
// the old one. The underlying update predicate also matches the superuser
// row; see user.Repository.UpdatePassword.
func (s *TodoService) ChangePassword(
	ctx context.Context,
	requestingID int64,
	oldPassword, newPassword string,
) (err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "change password failed", "error", err)
		} else {
			s.Log.DebugContext(ctx, "password changed")
		}
	}()

	if err := s.UserRepo.UpdatePassword(ctx, requestingID, oldPassword, newPassword); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// Username returns the username for the given user id. Used once at
// session start to personalize the prompt.
func (s *TodoService) Username(ctx context.Context, userID int64) (string, error) {
	found, ok, err := s.UserRepo.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("get user: %w", err)
	} else if !ok {
		return "", domain.ErrUserNotFound
	}

	return found.Username, nil
}

// CreateTodo inserts a new pending todo owned by the given user and
// returns the stored record.
func (s *TodoService) CreateTodo(ctx context.Context, userID int64, description string) (_ *domain.Todo, err error) {
	defer func() {
		if err != nil {
			s.Log.ErrorContext(ctx, "create todo failed", "error", err)
		} else {
			s.Log.DebugContext(ctx, "todo created")
		}
	}()

	created, err := s.TodoRepo.Create(ctx, userID, description)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	return created, nil
}

// UpdateTodo replaces the description of one of the user's todos.
func (s *TodoService) UpdateTodo(ctx context.Context, userID, id int64, description string) error {
	if err := s.TodoRepo.Update(ctx, userID, id, description); err != nil {
		return fmt.Errorf("update todo: %w", err)
	}

	return nil
}

// DeleteTodo removes one of the user's todos.
func (s *TodoService) DeleteTodo(ctx context.Context, userID, id int64) error {
	if err := s.TodoRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}

	return nil
}

// MarkDone marks one of the user's todos as completed.
func (s *TodoService) MarkDone(ctx context.Context, userID, id int64) error {
	if err := s.TodoRepo.MarkDone(ctx, userID, id); err != nil {
		return fmt.Errorf("mark todo done: %w", err)
	}

	return nil
}

// ListTodos returns the user's todos in creation order, optionally only
// the pending ones.
func (s *TodoService) ListTodos(ctx context.Context, userID int64, pendingOnly bool) ([]domain.Todo, error) {
	todos, err := s.TodoRepo.List(ctx, userID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return todos, nil
}

// SearchTodos returns the user's todos whose description contains the
// given substring.
func (s *TodoService) SearchTodos(ctx context.Context, userID int64, substring string) ([]domain.Todo, error) {
	todos, err := s.TodoRepo.Search(ctx, userID, substring)
	if err != nil {
		return nil, fmt.Errorf("search todos: %w", err)
	}

	return todos, nil
}

// Close releases resources held by the service.
func (s *TodoService) Close() error {
	if err := s.UserRepo.Close(); err != nil {
		return fmt.Errorf("close user repo: %w", err)
	}

	if err := s.TodoRepo.Close(); err != nil {
		return fmt.Errorf("close todo repo: %w", err)
	}

	return nil
}
