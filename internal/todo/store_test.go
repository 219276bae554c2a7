package todo

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_api/internal/database"
	"todo_api/internal/logging"
)

func openSQLiteDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := database.Open(database.SQLite, database.SQLiteDSN(path), logging.Nop())
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background(), db, database.SQLite))
	return db
}

func openTempSQLiteBackend(t *testing.T) *SQLBackend {
	t.Helper()
	db := openSQLiteDB(t, filepath.Join(t.TempDir(), "todo.db"))
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLBackend(db, database.SQLite)
}

func TestSQLBackendCreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := openTempSQLiteBackend(t)
	description := "2 liters"

	created, err := backend.Create(ctx, CreateInput{Title: "Buy milk", Description: &description, Completed: true})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := backend.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Buy milk", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, "2 liters", *got.Description)
	assert.True(t, got.Completed)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt))
}

func TestSQLBackendPartialUpdate(t *testing.T) {
	ctx := context.Background()
	backend := openTempSQLiteBackend(t)
	description := "keep me"

	created, err := backend.Create(ctx, CreateInput{Title: "a", Description: &description, Completed: true})
	require.NoError(t, err)

	updated, err := backend.Update(ctx, created.ID, UpdateInput{Completed: Some(false)})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Equal(t, "a", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)

	cleared, err := backend.Update(ctx, created.ID, UpdateInput{Description: Null[string]()})
	require.NoError(t, err)
	assert.Nil(t, cleared.Description)
	assert.Equal(t, "a", cleared.Title)

	unchanged, err := backend.Update(ctx, created.ID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, cleared, unchanged)
}

func TestSQLBackendListOrderAndDelete(t *testing.T) {
	ctx := context.Background()
	backend := openTempSQLiteBackend(t)

	for _, title := range []string{"A", "B", "C"} {
		_, err := backend.Create(ctx, CreateInput{Title: title})
		require.NoError(t, err)
	}
	require.NoError(t, backend.Delete(ctx, 3))
	assert.ErrorIs(t, backend.Delete(ctx, 3), ErrNotFound)

	// AUTOINCREMENT 保证删除后的 id 不会复用
	next, err := backend.Create(ctx, CreateInput{Title: "D"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), next.ID)

	items, err := backend.ListAll(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(items))
	for _, item := range items {
		titles = append(titles, item.Title)
	}
	assert.Equal(t, []string{"A", "B", "D"}, titles)
}

func TestSQLBackendMissingRows(t *testing.T) {
	ctx := context.Background()
	backend := openTempSQLiteBackend(t)

	_, err := backend.GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.Update(ctx, 99, UpdateInput{Title: Some("x")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = backend.Update(ctx, 99, UpdateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLBackendCheckConstraintIsValidation(t *testing.T) {
	backend := openTempSQLiteBackend(t)

	_, err := backend.Create(context.Background(), CreateInput{Title: "   "})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSQLBackendClosedDatabaseIsUnavailable(t *testing.T) {
	ctx := context.Background()
	db := openSQLiteDB(t, filepath.Join(t.TempDir(), "todo.db"))
	backend := NewSQLBackend(db, database.SQLite)
	require.NoError(t, db.Close())

	_, err := backend.ListAll(ctx)
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	_, err = backend.Create(ctx, CreateInput{Title: "a"})
	assert.ErrorIs(t, err, ErrBackendUnavailable)
	assert.ErrorIs(t, backend.Delete(ctx, 1), ErrBackendUnavailable)
	assert.Error(t, backend.Ping(ctx))
}
