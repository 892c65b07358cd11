package driven

import "context"

// Piece is one fragment of a split text, paired with any metadata the
// splitter derived for it (e.g., the heading path for a markdown split).
// Most splitters leave Metadata nil.
type Piece struct {
	// Text is the fragment content.
	Text string

	// Metadata contains splitter-derived key-value pairs.
	Metadata map[string]any
}

// Splitter splits one text blob into an ordered sequence of pieces.
// Implementations are pure: the same input always produces the same
// output, and no state is carried between calls.
//
// All parameter validation happens at construction time; Split never
// fails on configuration. Empty input yields an empty slice, not an
// error.
type Splitter interface {
	// Name returns the splitter name for logging and configuration.
	Name() string

	// Split cuts text into ordered pieces covering the input.
	Split(ctx context.Context, text string) ([]Piece, error)
}
