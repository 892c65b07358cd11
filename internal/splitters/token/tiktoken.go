package token

import (
	"fmt"
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is configured.
const DefaultEncoding = "cl100k_base"

// Ensure TiktokenEncoder implements the interface.
var _ Encoder = (*TiktokenEncoder)(nil)

// TiktokenEncoder adapts a tiktoken encoding to the Encoder interface.
// The encoding is initialised lazily because tiktoken may download its
// vocabulary data on first use.
type TiktokenEncoder struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
	initErr  error
}

// NewTiktokenEncoder creates an encoder for a named tiktoken encoding
// (e.g., "cl100k_base", "o200k_base").
func NewTiktokenEncoder(encoding string) *TiktokenEncoder {
	return &TiktokenEncoder{encoding: encoding}
}

// init initialises the tiktoken encoding on first use.
func (t *TiktokenEncoder) init() error {
	t.once.Do(func() {
		enc, err := tiktoken.GetEncoding(t.encoding)
		if err != nil {
			t.initErr = fmt.Errorf("init tiktoken encoding %s: %w", t.encoding, err)
			return
		}
		t.enc = enc
	})
	return t.initErr
}

// Encode converts text into token IDs.
func (t *TiktokenEncoder) Encode(text string) ([]int, error) {
	if err := t.init(); err != nil {
		return nil, err
	}
	return t.enc.Encode(text, nil, nil), nil
}

// Decode converts token IDs back into text.
func (t *TiktokenEncoder) Decode(ids []int) (string, error) {
	if err := t.init(); err != nil {
		return "", err
	}
	return t.enc.Decode(ids), nil
}

// Encoding returns the configured encoding name.
func (t *TiktokenEncoder) Encoding() string {
	return t.encoding
}
