package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Storage {
	t.Helper()
	ctx := context.Background()

	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return map[string]Storage{
		"memory": NewMemory(),
		"file":   file,
		"sqlite": db,
	}
}

func TestStorage_ReadMissingKey(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Read(context.Background(), "tasks")
			assert.True(t, errors.Is(err, ErrNotFound), "expected ErrNotFound, got %v", err)
		})
	}
}

func TestStorage_WriteThenRead(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Write(ctx, "tasks", []byte(`[{"id":1}]`)))

			got, err := store.Read(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[{"id":1}]`, string(got))
		})
	}
}

func TestStorage_WriteReplaces(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Write(ctx, "tasks", []byte(`[1]`)))
			require.NoError(t, store.Write(ctx, "tasks", []byte(`[1,2]`)))

			got, err := store.Read(ctx, "tasks")
			require.NoError(t, err)
			assert.Equal(t, `[1,2]`, string(got))
		})
	}
}

func TestStorage_KeysAreIndependent(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Write(ctx, "a", []byte(`"a"`)))
			require.NoError(t, store.Write(ctx, "b", []byte(`"b"`)))

			got, err := store.Read(ctx, "a")
			require.NoError(t, err)
			assert.Equal(t, `"a"`, string(got))
		})
	}
}

func TestMemory_WriteErr(t *testing.T) {
	mem := NewMemory()
	mem.WriteErr = errors.New("quota exceeded")

	err := mem.Write(context.Background(), "tasks", []byte(`[]`))
	require.Error(t, err)

	_, err = mem.Read(context.Background(), "tasks")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 0, mem.Writes())
}

func TestMemory_CountsStoredWrites(t *testing.T) {
	mem := NewMemory()
	mem.Set("tasks", []byte(`[]`))
	require.NoError(t, mem.Write(context.Background(), "tasks", []byte(`[{"id":1}]`)))
	require.NoError(t, mem.Write(context.Background(), "other", []byte(`[]`)))

	assert.Equal(t, 2, mem.Writes())
}

func TestFile_LeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	file, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, file.Write(context.Background(), "tasks", []byte(`[]`)))

	_, err = os.Stat(file.Path("tasks") + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")
}

func TestFile_SanitizesKey(t *testing.T) {
	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(file.Dir(), "a_b_c.json"), file.Path("a/b c"))
	assert.Equal(t, filepath.Join(file.Dir(), "default.json"), file.Path("  "))
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()

	store, closeFn, err := Open(ctx, Config{Backend: "file", Path: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, closeFn())
	assert.IsType(t, &File{}, store)

	store, closeFn, err = Open(ctx, Config{Backend: "sqlite", Path: filepath.Join(t.TempDir(), "db", "tasks.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, store)
	require.NoError(t, closeFn())

	store, _, err = Open(ctx, Config{Backend: "MEMORY"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, store)
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, _, err := Open(ctx, Config{Backend: "file"})
	assert.ErrorContains(t, err, "requires a path")

	_, _, err = Open(ctx, Config{Backend: "postgres"})
	assert.ErrorContains(t, err, "requires a dsn")

	_, _, err = Open(ctx, Config{Backend: "redis"})
	assert.ErrorIs(t, err, ErrUnknownBackend)
	assert.ErrorContains(t, err, `"redis": must be file, sqlite, postgres, memory`)
}
