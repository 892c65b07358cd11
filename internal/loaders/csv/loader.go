// Package csv provides a loader that turns CSV rows into documents.
package csv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.Loader = (*Loader)(nil)

// Loader reads a CSV file and produces one document per data row.
// The first row is treated as a header: each document's content is the
// row rendered as "column: value" lines, and the row number is recorded
// in metadata. Row order is preserved.
type Loader struct {
	sourceID string
	path     string

	delimiter      rune
	contentColumns []string
}

// Option configures the CSV loader.
type Option func(*Loader)

// WithDelimiter sets the field separator. Defaults to ','.
func WithDelimiter(d rune) Option {
	return func(l *Loader) {
		if d != 0 {
			l.delimiter = d
		}
	}
}

// WithContentColumns restricts document content to the named columns.
// If empty, all columns are included.
func WithContentColumns(columns []string) Option {
	return func(l *Loader) {
		l.contentColumns = columns
	}
}

// New creates a CSV loader for the given source ID and file path.
func New(sourceID, path string, opts ...Option) *Loader {
	l := &Loader{
		sourceID:  sourceID,
		path:      path,
		delimiter: ',',
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Type returns the loader type identifier.
func (l *Loader) Type() string {
	return "csv"
}

// SourceID returns the configured source ID.
func (l *Loader) SourceID() string {
	return l.sourceID
}

// Validate checks the file exists and is readable.
func (l *Loader) Validate(_ context.Context) error {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, l.path)
		}
		return fmt.Errorf("stat %s: %w", l.path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory, not a CSV file", domain.ErrSourceParse, l.path)
	}
	return nil
}

// Load reads the file and returns one document per data row.
// A file with only a header (or nothing) yields an empty slice.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, l.path)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = l.delimiter

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrSourceParse, l.path, err)
	}

	if len(records) < 2 {
		// Only a header or an empty file.
		return []domain.Document{}, nil
	}

	header := records[0]
	indices := l.resolveContentColumns(header)
	baseName := filepath.Base(l.path)
	now := time.Now()

	docs := make([]domain.Document, 0, len(records)-1)
	for i, row := range records[1:] {
		var lines []string
		for _, idx := range indices {
			if idx < len(row) {
				lines = append(lines, fmt.Sprintf("%s: %s", header[idx], row[idx]))
			}
		}

		docs = append(docs, domain.Document{
			ID:       uuid.New().String(),
			SourceID: l.sourceID,
			URI:      fmt.Sprintf("%s#row%d", l.path, i+1),
			Title:    fmt.Sprintf("%s row %d", baseName, i+1),
			Content:  strings.Join(lines, "\n"),
			Metadata: map[string]any{
				"source": baseName,
				"row":    i + 1,
			},
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return docs, nil
}

// Close releases resources. The CSV loader holds none between calls.
func (l *Loader) Close() error {
	return nil
}

// resolveContentColumns maps configured column names to header indices.
// Unknown names are ignored; with no configured columns all are used.
func (l *Loader) resolveContentColumns(header []string) []int {
	if len(l.contentColumns) == 0 {
		indices := make([]int, len(header))
		for i := range header {
			indices[i] = i
		}
		return indices
	}

	var indices []int
	for _, name := range l.contentColumns {
		for i, col := range header {
			if strings.EqualFold(strings.TrimSpace(col), name) {
				indices = append(indices, i)
				break
			}
		}
	}
	return indices
}
