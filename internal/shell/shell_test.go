package shell_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mkrupp/todoshell/internal/domain"
	"github.com/mkrupp/todoshell/internal/repo/history"
	"github.com/mkrupp/todoshell/internal/repo/todo"
	"github.com/mkrupp/todoshell/internal/repo/user"
	"github.com/mkrupp/todoshell/internal/shell"
	"github.com/mkrupp/todoshell/internal/svc/todosvc"
)

// newTestService builds a service over one sqlite file in dir, seeding
// the superuser as admin/root-pw.
func newTestService(t *testing.T, dir string) *todosvc.TodoService {
	t.Helper()

	path := filepath.Join(dir, "todoshell.db")

	svc, err := todosvc.NewTodoService(
		user.SQLiteUserRepositoryFactory(user.SQLiteUserRepositoryConfig{DatabasePath: path}),
		todo.SQLiteTodoRepositoryFactory(todo.SQLiteTodoRepositoryConfig{DatabasePath: path}),
	)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Errorf("close service: %v", err)
		}
	})

	if err := svc.EnsureSuperuser(context.Background(), "admin", "root-pw"); err != nil {
		t.Fatalf("ensure superuser: %v", err)
	}

	return svc
}

// runSession drives one scripted session: the first two lines of script
// are the login credentials, the rest are commands. Returns the rendered
// output.
func runSession(t *testing.T, svc *todosvc.TodoService, hist history.Repository, script string) string {
	t.Helper()

	var out bytes.Buffer

	sh := shell.New(svc, hist, shell.NewScriptedTerminal(strings.NewReader(script), &out))

	ctx, err := sh.Login(context.Background())
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := sh.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	return out.String()
}

func wantLines(t *testing.T, output string, lines ...string) {
	t.Helper()

	for _, line := range lines {
		if !strings.Contains(output, line) {
			t.Errorf("output missing %q\noutput:\n%s", line, output)
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	// Superuser creates alice.
	output := runSession(t, svc, nil, strings.Join([]string{
		"admin",
		"root-pw",
		"create-user alice secret",
		"exit",
	}, "\n")+"\n")
	wantLines(t, output,
		"User with id 2 created successfully",
		"Exiting",
	)

	// Alice works on her todos.
	output = runSession(t, svc, nil, strings.Join([]string{
		"alice",
		"secret",
		`create-todo "write report"`,
		"list-all-todos",
		"mark-todo-as-done 1",
		"list-all-pending-todos",
		"list-all-todos",
		"exit",
	}, "\n")+"\n")
	wantLines(t, output,
		"Todo with id 1 created successfully",
		"Found 1 todos",
		"#1 [ ] write report",
		"Todo marked as done successfully",
		"#1 [x] write report",
	)

	// The pending list is empty after mark-done.
	if strings.Count(output, "#1 [ ] write report") != 1 {
		t.Errorf("pending todo rendered after mark-done:\n%s", output)
	}
}

func TestOwnershipIsolationAcrossSessions(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	runSession(t, svc, nil, strings.Join([]string{
		"admin",
		"root-pw",
		"create-user alice secret",
		"create-user bob hunter2",
		"exit",
	}, "\n")+"\n")

	runSession(t, svc, nil, strings.Join([]string{
		"alice",
		"secret",
		`create-todo "alice private"`,
		"exit",
	}, "\n")+"\n")

	output := runSession(t, svc, nil, strings.Join([]string{
		"bob",
		"hunter2",
		"list-all-todos",
		"search-todo private",
		"delete-todo 1",
		"exit",
	}, "\n")+"\n")

	wantLines(t, output, "Found 0 todos")

	if strings.Contains(output, "alice private") {
		t.Errorf("bob sees alice's todo:\n%s", output)
	}

	// Foreign delete reads exactly like a missing id.
	wantLines(t, output, "todo not found")
}

func TestCommandErrorsKeepSessionAlive(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	output := runSession(t, svc, nil, strings.Join([]string{
		"admin",
		"root-pw",
		"frobnicate",
		"create-user alice",
		"edit-todo x y",
		"delete-todo 99",
		"create-user alice secret",
		"create-user alice secret",
		"help",
		"exit",
	}, "\n")+"\n")

	wantLines(t, output,
		"Error: unknown command: frobnicate",
		"Error: usage: create-user command takes 2 arguments",
		"Error: usage: edit-todo id must be an integer",
		"todo not found",
		"User with id 2 created successfully",
		"user already exists",
		"Commands:",
		"Exiting",
	)
}

func TestNonSuperuserCannotCreateUsers(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	runSession(t, svc, nil, strings.Join([]string{
		"admin",
		"root-pw",
		"create-user alice secret",
		"exit",
	}, "\n")+"\n")

	output := runSession(t, svc, nil, strings.Join([]string{
		"alice",
		"secret",
		"create-user mallory pw",
		"exit",
	}, "\n")+"\n")

	wantLines(t, output, "unauthorized")

	// The denied account must not exist.
	var sink bytes.Buffer

	sh := shell.New(svc, nil, shell.NewScriptedTerminal(strings.NewReader("mallory\npw\n"), &sink))
	if _, err := sh.Login(context.Background()); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("login as denied account error = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePasswordPromptsMasked(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	// On a scripted terminal the masked prompts read plain lines: the two
	// lines after the command are the old and new password.
	output := runSession(t, svc, nil, strings.Join([]string{
		"admin",
		"root-pw",
		"change-password admin",
		"root-pw",
		"new-pw",
		"exit",
	}, "\n")+"\n")

	wantLines(t, output,
		"Enter old password: ",
		"Enter new password: ",
		"Password changed successfully",
	)

	var sink bytes.Buffer

	sh := shell.New(svc, nil, shell.NewScriptedTerminal(strings.NewReader("admin\nnew-pw\n"), &sink))
	if _, err := sh.Login(context.Background()); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestFailedLoginIsFatal(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, t.TempDir())

	var out bytes.Buffer

	sh := shell.New(svc, nil, shell.NewScriptedTerminal(strings.NewReader("admin\nwrong\n"), &out))

	if _, err := sh.Login(context.Background()); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("login error = %v, want ErrInvalidCredentials", err)
	}
}

func TestSessionRecordsHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	svc := newTestService(t, dir)

	hist, err := history.NewBoltHistoryRepository(history.BoltHistoryRepositoryConfig{
		DatabasePath: filepath.Join(dir, "history.db"),
	})
	if err != nil {
		t.Fatalf("new history: %v", err)
	}

	t.Cleanup(func() {
		if err := hist.Close(); err != nil {
			t.Errorf("close history: %v", err)
		}
	})

	runSession(t, svc, hist, strings.Join([]string{
		"admin",
		"root-pw",
		"list-all-todos",
		"exit",
	}, "\n")+"\n")

	entries, err := hist.Entries(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("entries: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("history has %d entries, want 2", len(entries))
	}

	if entries[0].Text != "list-all-todos" || entries[1].Text != "exit" {
		t.Errorf("history = %+v", entries)
	}
}
