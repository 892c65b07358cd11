package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNew(t *testing.T) {
	t.Run("creates loader with valid parameters", func(t *testing.T) {
		loader := New("src-1", "/tmp/data.json")

		require.NotNil(t, loader)
		assert.Equal(t, "src-1", loader.sourceID)
		assert.Equal(t, "jsonfile", loader.Type())
	})

	t.Run("implements Loader interface", func(t *testing.T) {
		loader := New("src-1", "/tmp/data.json")
		var _ driven.Loader = loader
	})
}

func TestLoader_Validate(t *testing.T) {
	t.Run("existing file passes", func(t *testing.T) {
		path := writeFile(t, "data.json", "{}")

		assert.NoError(t, New("src-1", path).Validate(context.Background()))
	})

	t.Run("missing file wraps ErrNotFound", func(t *testing.T) {
		loader := New("src-1", filepath.Join(t.TempDir(), "missing.json"))

		assert.ErrorIs(t, loader.Validate(context.Background()), domain.ErrNotFound)
	})

	t.Run("directory wraps ErrSourceParse", func(t *testing.T) {
		loader := New("src-1", t.TempDir())

		assert.ErrorIs(t, loader.Validate(context.Background()), domain.ErrSourceParse)
	})
}

func TestLoader_Load_JSON(t *testing.T) {
	t.Run("array yields one document per element in order", func(t *testing.T) {
		path := writeFile(t, "data.json", `[{"text":"first"},{"text":"second"}]`)
		loader := New("src-1", path, WithContentField("text"))

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "first", docs[0].Content)
		assert.Equal(t, "second", docs[1].Content)
		assert.Equal(t, 0, docs[0].Metadata["index"])
		assert.Equal(t, 1, docs[1].Metadata["index"])
		assert.Equal(t, "data.json", docs[0].Metadata["source"])
	})

	t.Run("single object yields one document", func(t *testing.T) {
		path := writeFile(t, "data.json", `{"text":"only"}`)
		loader := New("src-1", path, WithContentField("text"))

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "only", docs[0].Content)
	})

	t.Run("scalar fields become metadata when content field set", func(t *testing.T) {
		path := writeFile(t, "data.json", `[{"text":"body","author":"ada","year":1843,"nested":{"a":1}}]`)
		loader := New("src-1", path, WithContentField("text"))

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "ada", docs[0].Metadata["author"])
		assert.Equal(t, float64(1843), docs[0].Metadata["year"])
		assert.NotContains(t, docs[0].Metadata, "nested")
		assert.NotContains(t, docs[0].Metadata, "text")
	})

	t.Run("no content field serialises the whole element", func(t *testing.T) {
		path := writeFile(t, "data.json", `[{"a":"b"}]`)
		loader := New("src-1", path)

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.JSONEq(t, `{"a":"b"}`, docs[0].Content)
	})

	t.Run("id field used when present", func(t *testing.T) {
		path := writeFile(t, "data.json", `[{"id":"doc-7","text":"x"},{"text":"y"}]`)
		loader := New("src-1", path, WithContentField("text"), WithIDField("id"))

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "doc-7", docs[0].ID)
		assert.NotEmpty(t, docs[1].ID)
		assert.NotEqual(t, "doc-7", docs[1].ID)
	})

	t.Run("empty file yields empty slice", func(t *testing.T) {
		path := writeFile(t, "data.json", "")

		docs, err := New("src-1", path).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("empty array yields empty slice", func(t *testing.T) {
		path := writeFile(t, "data.json", "[]")

		docs, err := New("src-1", path).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("malformed json wraps ErrSourceParse", func(t *testing.T) {
		path := writeFile(t, "data.json", `{"unterminated`)

		_, err := New("src-1", path).Load(context.Background())

		assert.ErrorIs(t, err, domain.ErrSourceParse)
	})

	t.Run("missing file wraps ErrNotFound", func(t *testing.T) {
		loader := New("src-1", filepath.Join(t.TempDir(), "missing.json"))

		_, err := loader.Load(context.Background())

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestLoader_Load_JSONL(t *testing.T) {
	t.Run("one document per line skipping blanks", func(t *testing.T) {
		path := writeFile(t, "data.jsonl", `{"text":"first"}

{"text":"second"}
`)
		loader := New("src-1", path, WithContentField("text"))

		docs, err := loader.Load(context.Background())

		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, "first", docs[0].Content)
		assert.Equal(t, "second", docs[1].Content)
	})

	t.Run("malformed line reports line number", func(t *testing.T) {
		path := writeFile(t, "data.jsonl", "{\"ok\":true}\nnot json\n")

		_, err := New("src-1", path).Load(context.Background())

		require.ErrorIs(t, err, domain.ErrSourceParse)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("empty file yields empty slice", func(t *testing.T) {
		path := writeFile(t, "data.jsonl", "")

		docs, err := New("src-1", path).Load(context.Background())

		require.NoError(t, err)
		assert.Empty(t, docs)
	})
}
