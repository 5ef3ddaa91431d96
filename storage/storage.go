// Package storage provides the key-value backends that hold the serialized
// task list.
//
// A backend stores opaque byte values under string keys. The task store keeps
// its whole collection under a single key and rewrites it on every mutation,
// so backends only need whole-value reads and writes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amonks/tasks/internal/validation"
)

// ErrNotFound is returned by Read when no value exists for the key.
var ErrNotFound = errors.New("storage key not found")

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Storage reads and writes whole values by key.
type Storage interface {
	// Read returns the value stored under key, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the value stored under key.
	Write(ctx context.Context, key string, value []byte) error
}

// Backend names accepted by Open.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Backends returns all backend names accepted by Open.
func Backends() []string {
	return []string{BackendFile, BackendSQLite, BackendPostgres, BackendMemory}
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of the Backend* constants. Defaults to BackendFile.
	Backend string

	// Path is the data directory for the file backend, or the database file
	// for the sqlite backend.
	Path string

	// DSN is the connection string for the postgres backend.
	DSN string
}

// Open returns the backend described by cfg. The returned close function
// releases any resources held by the backend and is never nil.
func Open(ctx context.Context, cfg Config) (Storage, func() error, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	noop := func() error { return nil }

	switch backend {
	case BackendFile:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, noop, fmt.Errorf("file storage requires a path")
		}
		file, err := NewFile(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return file, noop, nil
	case BackendSQLite:
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, noop, fmt.Errorf("sqlite storage requires a path")
		}
		db, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	case BackendPostgres:
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, noop, fmt.Errorf("postgres storage requires a dsn")
		}
		db, err := OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, noop, err
		}
		return db, db.Close, nil
	case BackendMemory:
		return NewMemory(), noop, nil
	default:
		return nil, noop, validation.InvalidValue(ErrUnknownBackend, cfg.Backend, Backends())
	}
}
