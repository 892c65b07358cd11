// Package token provides a sub-word token based text splitter.
// Sizes are measured in model tokens rather than runes, using an
// external encoder such as tiktoken.
package token

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// DefaultMaxTokens is the default maximum chunk size in tokens.
const DefaultMaxTokens = 512

// DefaultOverlapTokens is the default number of overlapping tokens.
const DefaultOverlapTokens = 64

// Encoder converts text to and from an ordered sequence of token IDs.
// It is treated as a deterministic black box; tiktoken is the default
// implementation.
type Encoder interface {
	// Encode converts text into token IDs.
	Encode(text string) ([]int, error)

	// Decode converts token IDs back into text.
	Decode(ids []int) (string, error)
}

// Ensure Splitter implements the interface.
var _ driven.Splitter = (*Splitter)(nil)

// Splitter cuts text into chunks of at most maxTokens tokens using a
// sliding window: the text is encoded once, fixed windows are taken
// over the token sequence with overlapTokens shared between adjacent
// windows, and each window is decoded back to text.
type Splitter struct {
	maxTokens     int
	overlapTokens int
	encoder       Encoder
}

// Option configures the token splitter.
type Option func(*Splitter)

// WithMaxTokens sets the maximum chunk size in tokens.
func WithMaxTokens(n int) Option {
	return func(s *Splitter) {
		s.maxTokens = n
	}
}

// WithOverlapTokens sets the overlap between chunks in tokens.
func WithOverlapTokens(n int) Option {
	return func(s *Splitter) {
		s.overlapTokens = n
	}
}

// WithEncoder sets the encoder. Defaults to tiktoken with DefaultEncoding.
func WithEncoder(enc Encoder) Option {
	return func(s *Splitter) {
		s.encoder = enc
	}
}

// New creates a token splitter with the given options.
// Parameters are validated once here: a non-positive maxTokens or an
// overlap that is not strictly smaller wraps domain.ErrConfiguration.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		maxTokens:     DefaultMaxTokens,
		overlapTokens: DefaultOverlapTokens,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.maxTokens <= 0 {
		return nil, fmt.Errorf("%w: max tokens must be positive, got %d", domain.ErrConfiguration, s.maxTokens)
	}
	if s.overlapTokens < 0 {
		return nil, fmt.Errorf("%w: overlap must be non-negative, got %d", domain.ErrConfiguration, s.overlapTokens)
	}
	if s.overlapTokens >= s.maxTokens {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than max tokens %d", domain.ErrConfiguration, s.overlapTokens, s.maxTokens)
	}

	if s.encoder == nil {
		s.encoder = NewTiktokenEncoder(DefaultEncoding)
	}

	return s, nil
}

// Name returns the splitter name.
func (s *Splitter) Name() string {
	return "token"
}

// Split cuts text into token windows. Empty input yields no pieces.
func (s *Splitter) Split(_ context.Context, text string) ([]driven.Piece, error) {
	if text == "" {
		return nil, nil
	}

	ids, err := s.encoder.Encode(text)
	if err != nil {
		return nil, fmt.Errorf("encode text: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	step := s.maxTokens - s.overlapTokens
	var pieces []driven.Piece

	for start := 0; start < len(ids); start += step {
		end := start + s.maxTokens
		if end > len(ids) {
			end = len(ids)
		}

		window, err := s.encoder.Decode(ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("decode window at token %d: %w", start, err)
		}
		pieces = append(pieces, driven.Piece{Text: window})

		if end == len(ids) {
			break
		}
	}

	return pieces, nil
}
