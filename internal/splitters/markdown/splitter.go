// Package markdown provides a header-bounded text splitter.
// Chunk boundaries align exactly with configured heading markers, and
// each chunk carries its full heading ancestry as metadata.
package markdown

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// Heading pairs a marker prefix with the metadata label recorded for it.
type Heading struct {
	// Prefix is the line marker (e.g., "#", "##").
	Prefix string

	// Label is the metadata key for headings at this level (e.g., "Header 1").
	Label string
}

// DefaultHeadings cover the first three markdown heading levels.
var DefaultHeadings = []Heading{
	{Prefix: "#", Label: "Header 1"},
	{Prefix: "##", Label: "Header 2"},
	{Prefix: "###", Label: "Header 3"},
}

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter scans text top-to-bottom and starts a new chunk at every
// line matching a configured heading marker. A running heading path is
// maintained: matching a marker overwrites its level's entry and clears
// all deeper levels, so a chunk under an H3 carries its H1, H2 and H3
// ancestry in metadata. Content before the first marker becomes an
// initial chunk with empty heading-path metadata.
//
// Marker lines themselves are not part of chunk content; their text
// lives in the heading-path metadata. Content is never reordered.
type Splitter struct {
	// headings in configured order; position defines hierarchy depth.
	headings []Heading

	// byLength holds heading indices sorted by descending prefix length
	// so "##" is tested before "#" when matching a line.
	byLength []int
}

// Option configures the markdown splitter.
type Option func(*Splitter)

// WithHeadings sets the heading markers, outermost level first.
func WithHeadings(headings []Heading) Option {
	return func(s *Splitter) {
		s.headings = headings
	}
}

// New creates a markdown splitter with the given options.
// Headings are validated once here: empty prefixes or labels and
// duplicate prefixes wrap domain.ErrConfiguration.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		headings: DefaultHeadings,
	}

	for _, opt := range opts {
		opt(s)
	}

	if len(s.headings) == 0 {
		return nil, fmt.Errorf("%w: at least one heading marker is required", domain.ErrConfiguration)
	}

	seen := make(map[string]bool, len(s.headings))
	for _, h := range s.headings {
		if h.Prefix == "" || h.Label == "" {
			return nil, fmt.Errorf("%w: heading prefix and label must be non-empty", domain.ErrConfiguration)
		}
		if seen[h.Prefix] {
			return nil, fmt.Errorf("%w: duplicate heading prefix %q", domain.ErrConfiguration, h.Prefix)
		}
		seen[h.Prefix] = true
	}

	s.byLength = make([]int, len(s.headings))
	for i := range s.headings {
		s.byLength[i] = i
	}
	sort.SliceStable(s.byLength, func(a, b int) bool {
		return len(s.headings[s.byLength[a]].Prefix) > len(s.headings[s.byLength[b]].Prefix)
	})

	return s, nil
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "markdown"
}

// Split cuts text at heading boundaries. Empty input yields no pieces.
func (s *Splitter) Split(_ context.Context, text string) ([]driven.Piece, error) {
	if text == "" {
		return nil, nil
	}

	var pieces []driven.Piece
	var lines []string

	// path holds the heading text per level index for the current position.
	path := make([]string, len(s.headings))

	flush := func() {
		content := strings.TrimRight(strings.Join(lines, "\n"), "\n")
		lines = nil
		if strings.TrimSpace(content) == "" {
			return
		}
		pieces = append(pieces, driven.Piece{
			Text:     content,
			Metadata: s.pathMetadata(path),
		})
	}

	for _, line := range strings.Split(text, "\n") {
		level, heading := s.matchHeading(line)
		if level < 0 {
			lines = append(lines, line)
			continue
		}

		flush()

		path[level] = heading
		for deeper := level + 1; deeper < len(path); deeper++ {
			path[deeper] = ""
		}
	}
	flush()

	return pieces, nil
}

// matchHeading returns the hierarchy level and heading text if the line
// is a marker line, or (-1, "") otherwise. Longer prefixes are tested
// first so nested markers are not shadowed by their parents.
func (s *Splitter) matchHeading(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	for _, idx := range s.byLength {
		prefix := s.headings[idx].Prefix
		if trimmed == prefix {
			return idx, ""
		}
		if strings.HasPrefix(trimmed, prefix+" ") {
			return idx, strings.TrimSpace(trimmed[len(prefix):])
		}
	}
	return -1, ""
}

// pathMetadata snapshots the current heading path. Levels without a
// heading yet (or cleared by a shallower marker) are omitted.
func (s *Splitter) pathMetadata(path []string) map[string]any {
	meta := make(map[string]any)
	for i, heading := range path {
		if heading != "" {
			meta[s.headings[i].Label] = heading
		}
	}
	return meta
}
