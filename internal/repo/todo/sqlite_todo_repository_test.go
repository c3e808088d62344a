package todo_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/repo/todo"
)

const (
	ownerA int64 = 1
	ownerB int64 = 2
)

func setupRepo(t *testing.T) *todo.SQLiteTodoRepository {
	t.Helper()

	repo, err := todo.NewSQLiteTodoRepository(todo.SQLiteTodoRepositoryConfig{
		DatabasePath: filepath.Join(t.TempDir(), "todos.db"),
	})
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}

	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("close repository: %v", err)
		}
	})

	return repo
}

func descriptions(todos []domain.Todo) []string {
	out := make([]string, 0, len(todos))
	for _, item := range todos {
		out = append(out, item.Description)
	}

	return out
}

func TestCreateAndList(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, ownerA, "buy milk")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if created.Completed {
		t.Error("new todo is completed, want pending")
	}

	if created.UserID != ownerA {
		t.Errorf("owner = %d, want %d", created.UserID, ownerA)
	}

	todos, err := repo.List(ctx, ownerA, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if diff := cmp.Diff([]string{"buy milk"}, descriptions(todos)); diff != "" {
		t.Errorf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestListOrderAndPendingFilter(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, ownerA, "first")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.Create(ctx, ownerA, "second"); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.MarkDone(ctx, ownerA, first.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	all, err := repo.List(ctx, ownerA, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}

	if diff := cmp.Diff([]string{"first", "second"}, descriptions(all)); diff != "" {
		t.Errorf("insertion order lost (-want +got):\n%s", diff)
	}

	if !all[0].Completed {
		t.Error("completed todo missing from unfiltered list")
	}

	pending, err := repo.List(ctx, ownerA, true)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}

	if diff := cmp.Diff([]string{"second"}, descriptions(pending)); diff != "" {
		t.Errorf("pending filter mismatch (-want +got):\n%s", diff)
	}
}

func TestOwnershipIsolation(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, ownerA, "owner A only")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	listed, err := repo.List(ctx, ownerB, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(listed) != 0 {
		t.Errorf("owner B sees %d todos, want 0", len(listed))
	}

	found, err := repo.Search(ctx, ownerB, "owner")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(found) != 0 {
		t.Errorf("owner B search finds %d todos, want 0", len(found))
	}

	// Foreign-owned mutations behave exactly like missing ids.
	if err := repo.Delete(ctx, ownerB, created.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Errorf("foreign delete error = %v, want ErrTodoNotFound", err)
	}

	if err := repo.Update(ctx, ownerB, created.ID, "hijacked"); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Errorf("foreign update error = %v, want ErrTodoNotFound", err)
	}

	if err := repo.MarkDone(ctx, ownerB, created.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Errorf("foreign mark-done error = %v, want ErrTodoNotFound", err)
	}

	// Owner A's row is untouched by the failed attempts.
	todos, err := repo.List(ctx, ownerA, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []domain.Todo{{ID: created.ID, Description: "owner A only", Completed: false, UserID: ownerA}}
	if diff := cmp.Diff(want, todos); diff != "" {
		t.Errorf("owner A row mutated (-want +got):\n%s", diff)
	}
}

func TestUpdateDeleteMarkDone(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, ownerA, "original")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.Update(ctx, ownerA, created.ID, "edited"); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := repo.MarkDone(ctx, ownerA, created.ID); err != nil {
		t.Fatalf("mark done: %v", err)
	}

	todos, err := repo.List(ctx, ownerA, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []domain.Todo{{ID: created.ID, Description: "edited", Completed: true, UserID: ownerA}}
	if diff := cmp.Diff(want, todos); diff != "" {
		t.Errorf("todo state mismatch (-want +got):\n%s", diff)
	}

	if err := repo.Delete(ctx, ownerA, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if err := repo.Delete(ctx, ownerA, created.ID); !errors.Is(err, domain.ErrTodoNotFound) {
		t.Errorf("second delete error = %v, want ErrTodoNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	t.Parallel()

	repo := setupRepo(t)
	ctx := context.Background()

	for _, description := range []string{"buy milk", "buy bread", "sell Milk"} {
		if _, err := repo.Create(ctx, ownerA, description); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name      string
		substring string
		want      []string
	}{
		{name: "substring match", substring: "buy", want: []string{"buy milk", "buy bread"}},
		{name: "case sensitive", substring: "milk", want: []string{"buy milk"}},
		{name: "interior match", substring: "y m", want: []string{"buy milk"}},
		{name: "no match is not an error", substring: "cheese", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			found, err := repo.Search(ctx, ownerA, tt.substring)
			if err != nil {
				t.Fatalf("search: %v", err)
			}

			var got []string
			if len(found) > 0 {
				got = descriptions(found)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("search(%q) mismatch (-want +got):\n%s", tt.substring, diff)
			}
		})
	}
}
