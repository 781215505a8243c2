package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/docchunk/internal/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T, batchSize int) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:", batchSize)
	require.NoError(t, err)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testChunks(source string, docNumber, n int) []document.Chunk {
	doc := &document.Document{Path: source, Title: "Doc " + source, Slug: document.Slug(source, "docs"), DocNumber: docNumber}
	texts := make([]string, n)
	for i := range texts {
		texts[i] = fmt.Sprintf("chunk text %d of %s", i+1, source)
	}
	return doc.Chunks(texts)
}

func TestSQLiteStore_Init(t *testing.T) {
	store := setupTestDB(t, 0)
	ctx := context.Background()

	// Re-running Init is a no-op.
	require.NoError(t, store.Init(ctx))

	var versions []string
	rows, err := store.db.QueryContext(ctx, "SELECT version FROM schema_version ORDER BY version")
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var v string
		require.NoError(t, rows.Scan(&v))
		versions = append(versions, v)
	}
	assert.Equal(t, []string{"1.0.0", CurrentSchemaVersion}, versions)
}

func TestSQLiteStore_UpsertChunks(t *testing.T) {
	store := setupTestDB(t, 10)
	ctx := context.Background()

	chunks := testChunks("docs/intro.md", 1, 25)
	n, err := store.UpsertChunks(ctx, chunks)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	// Upserting again updates in place.
	chunks[0].Title = "Renamed"
	chunks[0].Text = "new text"
	n, err = store.UpsertChunks(ctx, chunks[:1])
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	count, err = store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	rec, err := store.GetChunk(ctx, chunks[0].ChunkID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", rec.Title)
	assert.Equal(t, "new text", rec.Snippet)
	assert.Equal(t, "intro", rec.Slug)
	assert.Equal(t, 1, rec.OrderIndex)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestSQLiteStore_UpsertEmpty(t *testing.T) {
	store := setupTestDB(t, 10)

	n, err := store.UpsertChunks(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteStore_GetChunkNotFound(t *testing.T) {
	store := setupTestDB(t, 10)

	_, err := store.GetChunk(context.Background(), "doc-999-0001")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListBySource(t *testing.T) {
	store := setupTestDB(t, 3)
	ctx := context.Background()

	a := testChunks("docs/a.md", 1, 5)
	b := testChunks("docs/b.md", 2, 2)
	// Insert out of order to check ordering comes from order_index.
	all := append([]document.Chunk{a[4], a[2]}, b...)
	all = append(all, a[0], a[3], a[1])
	_, err := store.UpsertChunks(ctx, all)
	require.NoError(t, err)

	records, err := store.ListBySource(ctx, "docs/a.md")
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, i+1, r.OrderIndex)
		assert.Equal(t, "docs/a.md", r.SourcePath)
	}

	records, err = store.ListBySource(ctx, "docs/missing.md")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestOpen_SQLiteCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "chunks.db")

	store, err := Open(context.Background(), "sqlite:"+path, 10)
	require.NoError(t, err)
	defer store.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestParseDSN(t *testing.T) {
	tests := []struct {
		dsn, backend, target string
	}{
		{"postgres://u:p@localhost:5432/db", "postgres", "postgres://u:p@localhost:5432/db"},
		{"postgresql://localhost/db", "postgres", "postgresql://localhost/db"},
		{"sqlite:data/chunks.db", "sqlite", "data/chunks.db"},
		{"sqlite::memory:", "sqlite", ":memory:"},
		{"chunks.db", "sqlite", "chunks.db"},
	}
	for _, tt := range tests {
		backend, target := ParseDSN(tt.dsn)
		assert.Equal(t, tt.backend, backend, tt.dsn)
		assert.Equal(t, tt.target, target, tt.dsn)
	}
}

func TestPendingMigrations(t *testing.T) {
	all, err := pendingMigrations(nil)
	require.NoError(t, err)
	require.Len(t, all, len(AllMigrations))
	assert.Equal(t, "1.0.0", all[0].Version)

	rest, err := pendingMigrations([]string{"1.0.0"})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, "1.1.0", rest[0].Version)

	none, err := pendingMigrations([]string{"1.1.0", "1.0.0"})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = pendingMigrations([]string{"not-a-version"})
	assert.Error(t, err)
}

func TestBatches(t *testing.T) {
	chunks := testChunks("docs/x.md", 1, 23)

	got := batches(chunks, 10)
	require.Len(t, got, 3)
	assert.Len(t, got[0], 10)
	assert.Len(t, got[2], 3)

	assert.Len(t, batches(chunks, 0), 3, "non-positive size falls back to default")
	assert.Empty(t, batches(nil, 10))
}

func TestBuildModeMatchesDriver(t *testing.T) {
	want := map[string]string{"purego": "sqlite", "cgo": "sqlite3"}
	assert.Equal(t, want[BuildMode], DriverName)

	// The registered driver must open and answer queries.
	store := setupTestDB(t, 0)
	var version string
	require.NoError(t, store.db.QueryRow("SELECT sqlite_version()").Scan(&version))
	assert.NotEmpty(t, version)
}
