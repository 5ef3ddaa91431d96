package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/amonks/tasks/internal/config"
	"github.com/amonks/tasks/internal/paths"
	"github.com/amonks/tasks/internal/validation"
	"github.com/amonks/tasks/storage"
	"github.com/amonks/tasks/task"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// storageFlags override the storage section of the config.
type storageFlags struct {
	backend string
	path    string
	dsn     string
	key     string
}

var rootStorageFlags storageFlags

func (f *storageFlags) flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("storage", pflag.ContinueOnError)
	flags.StringVar(&f.backend, "storage", "", "Storage backend ("+validation.FormatValidValues(storage.Backends())+")")
	flags.StringVar(&f.path, "path", "", "Data directory (file) or database file (sqlite)")
	flags.StringVar(&f.dsn, "dsn", "", "Postgres connection string")
	flags.StringVar(&f.key, "key", "", "Name the list is stored under (default \""+task.DefaultKey+"\")")
	return flags
}

func (f storageFlags) apply(cfg *config.Config) {
	if f.backend != "" {
		cfg.Storage.Backend = f.backend
	}
	if f.path != "" {
		cfg.Storage.Path = f.path
	}
	if f.dsn != "" {
		cfg.Storage.DSN = f.dsn
	}
	if f.key != "" {
		cfg.Storage.Key = f.key
	}
}

// loadDotEnv reads ./.env into the environment when present.
// Variables already set are left alone.
func loadDotEnv(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// loadConfig resolves config files, then the environment, then flags.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if rootConfigPath != "" {
		cfg, err = config.LoadPath(rootConfigPath)
	} else {
		var dir string
		dir, err = paths.WorkingDir()
		if err != nil {
			return nil, err
		}
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnv(os.LookupEnv)
	rootStorageFlags.apply(cfg)
	return cfg, nil
}

// openTaskStore opens the configured backend. The returned close function
// is never nil.
func openTaskStore(ctx context.Context, cfg *config.Config) (*task.Store, func() error, error) {
	storageCfg, err := cfg.StorageConfig()
	if err != nil {
		return nil, func() error { return nil }, err
	}
	backend, closeBackend, err := storage.Open(ctx, storageCfg)
	if err != nil {
		return nil, closeBackend, err
	}
	store := task.Open(backend, task.Options{
		Key:    cfg.Storage.Key,
		Logger: log.New(os.Stderr, "tasks: ", 0),
	})
	return store, closeBackend, nil
}

// withStore loads config, opens the store, and runs fn against it.
func withStore(cmd *cobra.Command, fn func(store *task.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, closeStore, err := openTaskStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func parseTaskID(value string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(value), "#"))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", value)
	}
	return id, nil
}

var errTaskNotFound = errors.New("not found")

func taskNotFound(id int) error {
	return fmt.Errorf("task %d %w", id, errTaskNotFound)
}

// lookupTask returns the task with id or a not-found error.
func lookupTask(store *task.Store, id int) (task.Task, error) {
	t, ok := store.Get(id)
	if !ok {
		return task.Task{}, taskNotFound(id)
	}
	return t, nil
}
