// Package recursive provides a bounded-length text splitter that cuts
// on an ordered list of separator candidates.
package recursive

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// DefaultChunkSize is the default maximum chunk length in runes.
const DefaultChunkSize = 1000

// DefaultOverlap is the default number of overlapping runes.
const DefaultOverlap = 200

// DefaultSeparators are tried from most- to least-preferred.
// The empty string means "split anywhere".
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter cuts text into chunks of at most chunkSize runes.
// It recursively tries each separator in priority order: pieces that
// still exceed chunkSize are re-split with the next candidate, and once
// all candidates are exhausted the text is hard-cut at chunkSize.
// Adjacent chunks share at most overlap runes of trailing content.
//
// Every rune of the input appears in at least one output chunk; nothing
// is trimmed or dropped.
type Splitter struct {
	chunkSize  int
	overlap    int
	separators []string
}

// Option configures the recursive splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		s.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		s.overlap = overlap
	}
}

// WithSeparators sets the separator candidates, most-preferred first.
func WithSeparators(separators []string) Option {
	return func(s *Splitter) {
		s.separators = separators
	}
}

// New creates a recursive splitter with the given options.
// Parameters are validated once here, never during Split: a non-positive
// chunk size, a negative overlap, or an overlap that is not strictly
// smaller than the chunk size wraps domain.ErrConfiguration.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize:  DefaultChunkSize,
		overlap:    DefaultOverlap,
		separators: DefaultSeparators,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfiguration, s.chunkSize)
	}
	if s.overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrConfiguration, s.overlap)
	}
	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", domain.ErrConfiguration, s.overlap, s.chunkSize)
	}
	if len(s.separators) == 0 {
		return nil, fmt.Errorf("%w: at least one separator candidate is required", domain.ErrConfiguration)
	}

	return s, nil
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "recursive"
}

// Split cuts text into ordered pieces of at most chunkSize runes.
// Empty input yields no pieces.
func (s *Splitter) Split(_ context.Context, text string) ([]driven.Piece, error) {
	if text == "" {
		return nil, nil
	}

	chunks := s.split(text, s.separators)

	pieces := make([]driven.Piece, 0, len(chunks))
	for _, chunk := range chunks {
		pieces = append(pieces, driven.Piece{Text: chunk})
	}
	return pieces, nil
}

// split cuts text using the highest-priority separator present in it,
// recursing into the remaining candidates for oversized pieces.
func (s *Splitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var remaining []string
	for i, candidate := range separators {
		if candidate == "" {
			separator = ""
			break
		}
		if strings.Contains(text, candidate) {
			separator = candidate
			remaining = separators[i+1:]
			break
		}
	}

	if separator == "" {
		return s.hardCut(text)
	}

	// SplitAfter keeps the separator attached to the preceding piece,
	// so joining pieces back together reproduces the input exactly.
	splits := strings.SplitAfter(text, separator)

	var chunks []string
	var fitting []string

	for _, piece := range splits {
		if piece == "" {
			continue
		}
		if len([]rune(piece)) <= s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}

		// Flush accumulated pieces before descending into the oversized one.
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting)...)
			fitting = nil
		}
		if len(remaining) == 0 {
			chunks = append(chunks, s.hardCut(piece)...)
		} else {
			chunks = append(chunks, s.split(piece, remaining)...)
		}
	}

	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting)...)
	}

	return chunks
}

// merge greedily packs pieces into chunks of at most chunkSize runes,
// carrying at most overlap trailing runes into the next chunk. The
// overlap is re-derived after each emission so it never grows beyond
// the requested size.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pieceLen := len([]rune(piece))

		if total+pieceLen > s.chunkSize && len(window) > 0 {
			chunks = append(chunks, strings.Join(window, ""))

			// Shrink the window to the overlap budget.
			for total > s.overlap || (total+pieceLen > s.chunkSize && total > 0) {
				total -= len([]rune(window[0]))
				window = window[1:]
			}
		}

		window = append(window, piece)
		total += pieceLen
	}

	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}

	return chunks
}

// hardCut slices text into fixed windows of chunkSize runes with
// overlap runes shared between adjacent windows. Last resort when no
// separator candidate can produce fitting pieces.
func (s *Splitter) hardCut(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := s.chunkSize - s.overlap
	var chunks []string

	for start := 0; start < len(runes); start += step {
		end := start + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks
}
