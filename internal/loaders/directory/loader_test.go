package directory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew(t *testing.T) {
	t.Run("creates loader with defaults", func(t *testing.T) {
		loader := New("src-1", "/tmp/docs")

		require.NotNil(t, loader)
		assert.Equal(t, DefaultGlob, loader.glob)
		assert.Equal(t, "directory", loader.Type())
	})

	t.Run("implements Loader and WatchingLoader interfaces", func(t *testing.T) {
		loader := New("src-1", "/tmp/docs")
		var _ driven.Loader = loader
		var _ driven.WatchingLoader = loader
	})

	t.Run("empty glob keeps default", func(t *testing.T) {
		loader := New("src-1", "/tmp/docs", WithGlob(""))

		assert.Equal(t, DefaultGlob, loader.glob)
	})
}

func TestLoader_Validate(t *testing.T) {
	t.Run("existing directory passes", func(t *testing.T) {
		assert.NoError(t, New("src-1", t.TempDir()).Validate(context.Background()))
	})

	t.Run("missing directory wraps ErrNotFound", func(t *testing.T) {
		loader := New("src-1", filepath.Join(t.TempDir(), "missing"))

		assert.ErrorIs(t, loader.Validate(context.Background()), domain.ErrNotFound)
	})

	t.Run("file instead of directory wraps ErrSourceParse", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "file.txt", "x")

		assert.ErrorIs(t, New("src-1", path).Validate(context.Background()), domain.ErrSourceParse)
	})

	t.Run("malformed glob wraps ErrConfiguration", func(t *testing.T) {
		loader := New("src-1", t.TempDir(), WithGlob("[unclosed"))

		assert.ErrorIs(t, loader.Validate(context.Background()), domain.ErrConfiguration)
	})
}

func TestLoader_Load(t *testing.T) {
	t.Run("loads matching files including subdirectories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.md", "alpha")
		writeFile(t, dir, "b.txt", "bravo")
		writeFile(t, dir, filepath.Join("nested", "c.md"), "charlie")

		loader := New("src-1", dir, WithGlob("*.md"))
		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)

		contents := []string{docs[0].Content, docs[1].Content}
		assert.ElementsMatch(t, []string{"alpha", "charlie"}, contents)
	})

	t.Run("populates file metadata", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "notes.md", "hello")

		docs, err := New("src-1", dir).Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)

		doc := docs[0]
		assert.Equal(t, path, doc.URI)
		assert.Equal(t, "notes.md", doc.Title)
		assert.Equal(t, "notes.md", doc.Metadata["file_name"])
		assert.Equal(t, ".md", doc.Metadata["extension"])
		assert.Equal(t, int64(5), doc.Metadata["size"])
		assert.NotEmpty(t, doc.Metadata["modified"])
	})

	t.Run("no matches yields empty slice", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.txt", "x")

		docs, err := New("src-1", dir, WithGlob("*.md")).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("missing directory wraps ErrNotFound", func(t *testing.T) {
		loader := New("src-1", filepath.Join(t.TempDir(), "missing"))

		_, err := loader.Load(context.Background())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "a.md", "x")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New("src-1", dir).Load(ctx)

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoader_Watch(t *testing.T) {
	waitForChange := func(t *testing.T, changes <-chan domain.DocumentChange) domain.DocumentChange {
		t.Helper()
		select {
		case change, ok := <-changes:
			require.True(t, ok, "change channel closed early")
			return change
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for change event")
			return domain.DocumentChange{}
		}
	}

	t.Run("emits created event for new matching file", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loader := New("src-1", dir, WithGlob("*.md"))
		changes, err := loader.Watch(ctx)
		require.NoError(t, err)

		path := writeFile(t, dir, "new.md", "fresh")

		change := waitForChange(t, changes)
		assert.Equal(t, domain.ChangeCreated, change.Type)
		assert.Equal(t, path, change.Document.URI)
		assert.Equal(t, "src-1", change.Document.SourceID)
	})

	t.Run("emits deleted event with file URI", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "old.md", "stale")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := New("src-1", dir, WithGlob("*.md")).Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		change := waitForChange(t, changes)
		assert.Equal(t, domain.ChangeDeleted, change.Type)
		assert.Equal(t, path, change.Document.URI)
	})

	t.Run("ignores non-matching files", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := New("src-1", dir, WithGlob("*.md")).Watch(ctx)
		require.NoError(t, err)

		writeFile(t, dir, "skip.txt", "ignored")
		writeFile(t, dir, "keep.md", "wanted")

		change := waitForChange(t, changes)
		assert.Equal(t, "keep.md", filepath.Base(change.Document.URI))
	})

	t.Run("channel closes on context cancellation", func(t *testing.T) {
		dir := t.TempDir()
		ctx, cancel := context.WithCancel(context.Background())

		changes, err := New("src-1", dir).Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok)
		case <-time.After(5 * time.Second):
			t.Fatal("channel did not close after cancellation")
		}
	})

	t.Run("missing directory fails", func(t *testing.T) {
		loader := New("src-1", filepath.Join(t.TempDir(), "missing"))

		_, err := loader.Watch(context.Background())

		assert.Error(t, err)
	})
}
