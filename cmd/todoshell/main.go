package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mkrupp/todoshell/internal/infra/config"
	"github.com/mkrupp/todoshell/internal/infra/logging"
	"github.com/mkrupp/todoshell/internal/repo/history"
	"github.com/mkrupp/todoshell/internal/repo/todo"
	"github.com/mkrupp/todoshell/internal/repo/user"
	"github.com/mkrupp/todoshell/internal/shell"
	"github.com/mkrupp/todoshell/internal/svc/todosvc"
)

const appName = "todoshell"

// StoreConfig selects the persistence driver and seeds the superuser on a
// fresh store.
type StoreConfig struct {
	// Driver selects the storage backend ("sqlite" or "postgres")
	Driver string `env:"DRIVER" default:"sqlite"`

	// AdminUsername is the superuser's username on an empty store
	AdminUsername string `env:"ADMIN_USERNAME" default:"admin"`

	// AdminPassword is the superuser's password on an empty store
	AdminPassword string `env:"ADMIN_PASSWORD" default:"admin"`
}

type Config struct {
	config.EnvConfig

	Log   logging.LoggerConfig `envPrefix:"LOG_"`
	Store StoreConfig          `envPrefix:"STORE_"`

	// The sqlite user and todo repositories share one database file, as
	// do the postgres ones one DSN; the sections read the same variables.
	UserSQLite   user.SQLiteUserRepositoryConfig   `envPrefix:"STORE_"`
	TodoSQLite   todo.SQLiteTodoRepositoryConfig   `envPrefix:"STORE_"`
	UserPostgres user.PostgresUserRepositoryConfig `envPrefix:"STORE_"`
	TodoPostgres todo.PostgresTodoRepositoryConfig `envPrefix:"STORE_"`

	History history.BoltHistoryRepositoryConfig `envPrefix:"HISTORY_"`
}

func main() {
	var (
		cfg Config
		ctx = context.Background()
	)

	if err := config.LoadDotenv(); err != nil {
		panic(err)
	}

	if err := config.Parse(ctx, &cfg, strings.ToUpper(appName)); err != nil {
		panic(err)
	}

	logging.Configure(ctx, cfg.Log, appName)

	if err := run(ctx, cfg); err != nil {
		logging.GetLogger("cmd.todoshell").ErrorContext(ctx, "error", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) (err error) {
	defer func() {
		if err == nil {
			logging.GetLogger("cmd.todoshell").InfoContext(ctx, "shutdown")
		}
	}()

	userFactory, todoFactory, err := repoFactories(cfg)
	if err != nil {
		return err
	}

	svc, err := todosvc.NewTodoService(userFactory, todoFactory)
	if err != nil {
		return fmt.Errorf("new todo service: %w", err)
	}
	defer svc.Close()

	if err := svc.EnsureSuperuser(ctx, cfg.Store.AdminUsername, cfg.Store.AdminPassword); err != nil {
		return fmt.Errorf("ensure superuser: %w", err)
	}

	sh := shell.New(svc, openHistory(ctx, cfg), shell.NewTerminal(os.Stdin, os.Stdout))

	ctx, err = sh.Login(ctx)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	return sh.Run(ctx)
}

func repoFactories(cfg Config) (user.RepositoryFactory, todo.RepositoryFactory, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		if err := ensureDir(cfg.UserSQLite.DatabasePath); err != nil {
			return nil, nil, err
		}

		return user.SQLiteUserRepositoryFactory(cfg.UserSQLite),
			todo.SQLiteTodoRepositoryFactory(cfg.TodoSQLite),
			nil

	case "postgres":
		return user.PostgresUserRepositoryFactory(cfg.UserPostgres),
			todo.PostgresTodoRepositoryFactory(cfg.TodoPostgres),
			nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// openHistory opens the command history store. History is a convenience,
// not part of command semantics, so failures only log a warning and the
// shell runs without it.
func openHistory(ctx context.Context, cfg Config) history.Repository {
	log := logging.GetLogger("cmd.todoshell")

	if err := ensureDir(cfg.History.DatabasePath); err != nil {
		log.WarnContext(ctx, "history disabled", "error", err)

		return nil
	}

	hist, err := history.NewBoltHistoryRepository(cfg.History)
	if err != nil {
		log.WarnContext(ctx, "history disabled", "error", err)

		return nil
	}

	return hist
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	return nil
}
