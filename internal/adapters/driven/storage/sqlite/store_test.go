package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})

	return store
}

// testDocument builds a document with stable timestamps for round-trip
// comparisons.
func testDocument(id, sourceID string) *domain.Document {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Document{
		ID:       id,
		SourceID: sourceID,
		URI:      "file:///test/" + id,
		Title:    "Test Document " + id,
		Content:  "content of " + id,
		Metadata: map[string]any{
			"source": "test",
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	// Verify database file was created
	dbPath := filepath.Join(tempDir, "chunks.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	// Verify database connection is working
	assert.NoError(t, store.db.Ping())
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening the same directory must not re-run applied migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var version int
	row := store.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	require.NoError(t, row.Scan(&version))
	assert.Equal(t, 1, version)
}

func TestStore_SaveDocument(t *testing.T) {
	t.Run("save and retrieve round trip", func(t *testing.T) {
		store := setupTestStore(t)
		doc := testDocument("doc-1", "src-1")

		require.NoError(t, store.SaveDocument(context.Background(), doc))

		got, err := store.GetDocument(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, doc.ID, got.ID)
		assert.Equal(t, doc.SourceID, got.SourceID)
		assert.Equal(t, doc.URI, got.URI)
		assert.Equal(t, doc.Content, got.Content)
		assert.Equal(t, doc.Metadata, got.Metadata)
	})

	t.Run("save updates existing document", func(t *testing.T) {
		store := setupTestStore(t)
		doc := testDocument("doc-1", "src-1")
		require.NoError(t, store.SaveDocument(context.Background(), doc))

		doc.Content = "updated content"
		require.NoError(t, store.SaveDocument(context.Background(), doc))

		got, err := store.GetDocument(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "updated content", got.Content)
	})
}

func TestStore_GetDocument(t *testing.T) {
	t.Run("missing document returns ErrNotFound", func(t *testing.T) {
		store := setupTestStore(t)

		_, err := store.GetDocument(context.Background(), "missing")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestStore_SaveChunks(t *testing.T) {
	t.Run("save and retrieve ordered by position", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", "src-1")))

		chunks := []domain.Chunk{
			{ID: "c-2", DocumentID: "doc-1", Content: "second", Index: 1, TotalChunks: 2,
				Metadata: map[string]any{"chunk_index": float64(1)}},
			{ID: "c-1", DocumentID: "doc-1", Content: "first", Index: 0, TotalChunks: 2,
				Metadata: map[string]any{"chunk_index": float64(0)}},
		}
		require.NoError(t, store.SaveChunks(context.Background(), chunks))

		got, err := store.GetChunks(context.Background(), "doc-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "c-1", got[0].ID)
		assert.Equal(t, "first", got[0].Content)
		assert.Equal(t, "c-2", got[1].ID)
		assert.Equal(t, map[string]any{"chunk_index": float64(1)}, got[1].Metadata)
	})

	t.Run("replaces previous chunk set", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", "src-1")))

		require.NoError(t, store.SaveChunks(context.Background(), []domain.Chunk{
			{ID: "c-1", DocumentID: "doc-1", Index: 0, TotalChunks: 2},
			{ID: "c-2", DocumentID: "doc-1", Index: 1, TotalChunks: 2},
		}))
		require.NoError(t, store.SaveChunks(context.Background(), []domain.Chunk{
			{ID: "c-3", DocumentID: "doc-1", Index: 0, TotalChunks: 1},
		}))

		got, err := store.GetChunks(context.Background(), "doc-1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "c-3", got[0].ID)
	})

	t.Run("empty slice is a no-op", func(t *testing.T) {
		store := setupTestStore(t)

		assert.NoError(t, store.SaveChunks(context.Background(), nil))
	})
}

func TestStore_GetChunks(t *testing.T) {
	t.Run("unknown document returns empty", func(t *testing.T) {
		store := setupTestStore(t)

		got, err := store.GetChunks(context.Background(), "missing")

		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestStore_ListDocuments(t *testing.T) {
	t.Run("filters by source", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", "src-a")))
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-2", "src-b")))
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-3", "src-a")))

		docs, err := store.ListDocuments(context.Background(), "src-a")

		require.NoError(t, err)
		assert.Len(t, docs, 2)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		store := setupTestStore(t)

		docs, err := store.ListDocuments(context.Background(), "src-a")

		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}

func TestStore_DeleteDocument(t *testing.T) {
	t.Run("removes document and cascades to chunks", func(t *testing.T) {
		store := setupTestStore(t)
		require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", "src-1")))
		require.NoError(t, store.SaveChunks(context.Background(), []domain.Chunk{
			{ID: "c-1", DocumentID: "doc-1", Index: 0, TotalChunks: 1},
		}))

		require.NoError(t, store.DeleteDocument(context.Background(), "doc-1"))

		_, err := store.GetDocument(context.Background(), "doc-1")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		chunks, err := store.GetChunks(context.Background(), "doc-1")
		require.NoError(t, err)
		assert.Empty(t, chunks)
	})

	t.Run("deleting missing document is a no-op", func(t *testing.T) {
		store := setupTestStore(t)

		assert.NoError(t, store.DeleteDocument(context.Background(), "missing"))
	})
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	tempDir := t.TempDir()

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.SaveDocument(context.Background(), testDocument("doc-1", "src-1")))
	require.NoError(t, store.Close())

	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.GetDocument(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", got.ID)

	// Just confirm nothing else leaked into the directory listing.
	entries, err := os.ReadDir(tempDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
