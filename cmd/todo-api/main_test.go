package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_api/internal/config"
	"todo_api/internal/logging"
	"todo_api/internal/todo"
)

func TestSchemaCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"schema", "--dialect", "sqlite"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "AUTOINCREMENT")
}

func TestSchemaCommandRejectsDialect(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"schema", "--dialect", "mysql"})

	assert.Error(t, cmd.Execute())
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ADDR", ":7000")
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := loadConfig(":9000", "SQLITE")
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, config.BackendSQLite, cfg.StorageBackend)

	_, err = loadConfig("", "cassandra")
	assert.Error(t, err)
}

func TestOpenBackendMemory(t *testing.T) {
	backend, db, err := openBackend(context.Background(), config.Config{StorageBackend: config.BackendMemory}, logging.Nop())
	require.NoError(t, err)
	assert.Nil(t, db)
	assert.IsType(t, &todo.MemoryBackend{}, backend)
}

func TestOpenBackendSQLite(t *testing.T) {
	cfg := config.Config{
		StorageBackend: config.BackendSQLite,
		SQLitePath:     filepath.Join(t.TempDir(), "todo.db"),
	}
	backend, db, err := openBackend(context.Background(), cfg, logging.Nop())
	require.NoError(t, err)
	require.NotNil(t, db)
	t.Cleanup(func() { _ = db.Close() })

	_, ok := backend.(todo.Pinger)
	assert.True(t, ok)

	created, err := backend.Create(context.Background(), todo.CreateInput{Title: "from cli"})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
}
