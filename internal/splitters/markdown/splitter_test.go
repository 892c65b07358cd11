package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("default headings", func(t *testing.T) {
		s, err := New()

		require.NoError(t, err)
		assert.Equal(t, DefaultHeadings, s.headings)
	})

	t.Run("custom headings", func(t *testing.T) {
		headings := []Heading{{Prefix: "=", Label: "Title"}}
		s, err := New(WithHeadings(headings))

		require.NoError(t, err)
		assert.Equal(t, headings, s.headings)
	})

	t.Run("empty heading list rejected", func(t *testing.T) {
		_, err := New(WithHeadings(nil))

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("empty prefix rejected", func(t *testing.T) {
		_, err := New(WithHeadings([]Heading{{Prefix: "", Label: "Title"}}))

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("duplicate prefix rejected", func(t *testing.T) {
		_, err := New(WithHeadings([]Heading{
			{Prefix: "#", Label: "A"},
			{Prefix: "#", Label: "B"},
		}))

		assert.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestSplitter_Name(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	assert.Equal(t, "markdown", s.Name())
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	pieces, err := s.Split(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestSplit_HeadingAncestry(t *testing.T) {
	s, err := New(WithHeadings([]Heading{
		{Prefix: "#", Label: "Header 1"},
		{Prefix: "##", Label: "Header 2"},
	}))
	require.NoError(t, err)

	pieces, err := s.Split(context.Background(), "# A\ntext1\n## B\ntext2")

	require.NoError(t, err)
	require.Len(t, pieces, 2)

	assert.Contains(t, pieces[0].Text, "text1")
	assert.Equal(t, map[string]any{"Header 1": "A"}, pieces[0].Metadata)

	assert.Contains(t, pieces[1].Text, "text2")
	assert.Equal(t, map[string]any{"Header 1": "A", "Header 2": "B"}, pieces[1].Metadata)
}

func TestSplit_PreambleBeforeFirstHeading(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	pieces, err := s.Split(context.Background(), "intro text\n# First\nbody")

	require.NoError(t, err)
	require.Len(t, pieces, 2)

	assert.Equal(t, "intro text", pieces[0].Text)
	assert.Empty(t, pieces[0].Metadata)

	assert.Equal(t, "body", pieces[1].Text)
	assert.Equal(t, map[string]any{"Header 1": "First"}, pieces[1].Metadata)
}

func TestSplit_DeeperLevelsCleared(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	text := "# One\n## Sub\ndeep text\n# Two\nshallow text"
	pieces, err := s.Split(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, pieces, 2)

	assert.Equal(t, map[string]any{"Header 1": "One", "Header 2": "Sub"}, pieces[0].Metadata)

	// The new H1 clears the previous H2 from the path.
	assert.Equal(t, map[string]any{"Header 1": "Two"}, pieces[1].Metadata)
}

func TestSplit_NestedMarkerNotShadowed(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	pieces, err := s.Split(context.Background(), "## Only Sub\ncontent")

	require.NoError(t, err)
	require.Len(t, pieces, 1)

	// "## Only Sub" must match the H2 marker, not H1 with text "# Only Sub".
	assert.Equal(t, map[string]any{"Header 2": "Only Sub"}, pieces[0].Metadata)
}

func TestSplit_HeadingsOnlyYieldsNoPieces(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	pieces, err := s.Split(context.Background(), "# A\n## B")

	require.NoError(t, err)
	assert.Empty(t, pieces)
}

func TestSplit_ContentOrderPreserved(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	text := "# A\nfirst\n# B\nsecond\n# C\nthird"
	pieces, err := s.Split(context.Background(), text)

	require.NoError(t, err)
	require.Len(t, pieces, 3)
	assert.Equal(t, "first", pieces[0].Text)
	assert.Equal(t, "second", pieces[1].Text)
	assert.Equal(t, "third", pieces[2].Text)
}

func TestSplit_Idempotent(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	text := "# A\ntext1\n## B\ntext2"
	first, err := s.Split(context.Background(), text)
	require.NoError(t, err)
	second, err := s.Split(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
