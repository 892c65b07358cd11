// Package jsonfile provides a loader that turns JSON and JSONL files
// into documents.
package jsonfile

import (
	"bufio"
	"context"
	"encoding/json"
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

// Loader reads a .json file (single object or array of objects) or a
// .jsonl file (one object per line) and produces one document per
// element, preserving element order.
//
// When a content field is configured its value becomes the document
// content and the element's remaining scalar fields become metadata;
// otherwise the whole element is serialised as content.
type Loader struct {
	sourceID string
	path     string

	contentField string
	idField      string
}

// Option configures the JSON loader.
type Option func(*Loader)

// WithContentField selects the field used as document content.
func WithContentField(field string) Option {
	return func(l *Loader) {
		l.contentField = field
	}
}

// WithIDField selects the field used as document ID.
// Elements without it fall back to a generated ID.
func WithIDField(field string) Option {
	return func(l *Loader) {
		l.idField = field
	}
}

// New creates a JSON loader for the given source ID and file path.
func New(sourceID, path string, opts ...Option) *Loader {
	l := &Loader{
		sourceID: sourceID,
		path:     path,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Type returns the loader type identifier.
func (l *Loader) Type() string {
	return "jsonfile"
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
		return fmt.Errorf("%w: %s is a directory, not a JSON file", domain.ErrSourceParse, l.path)
	}
	return nil
}

// Load reads the file and returns one document per element.
// An empty file or empty array yields an empty slice.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(l.path), ".jsonl") {
		return l.loadJSONL()
	}
	return l.loadJSON()
}

// Close releases resources. The JSON loader holds none between calls.
func (l *Loader) Close() error {
	return nil
}

// loadJSON handles .json files containing a single object or an array.
func (l *Loader) loadJSON() ([]domain.Document, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, l.path)
		}
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return []domain.Document{}, nil
	}

	if trimmed[0] == '[' {
		var elements []map[string]any
		if err := json.Unmarshal([]byte(trimmed), &elements); err != nil {
			return nil, fmt.Errorf("%w: parsing array in %s: %v", domain.ErrSourceParse, l.path, err)
		}
		return l.elementsToDocs(elements), nil
	}

	var element map[string]any
	if err := json.Unmarshal([]byte(trimmed), &element); err != nil {
		return nil, fmt.Errorf("%w: parsing object in %s: %v", domain.ErrSourceParse, l.path, err)
	}
	return l.elementsToDocs([]map[string]any{element}), nil
}

// loadJSONL handles .jsonl files with one JSON object per line.
func (l *Loader) loadJSONL() ([]domain.Document, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, l.path)
		}
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	var elements []map[string]any
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var element map[string]any
		if err := json.Unmarshal([]byte(line), &element); err != nil {
			return nil, fmt.Errorf("%w: parsing %s line %d: %v", domain.ErrSourceParse, l.path, lineNo, err)
		}
		elements = append(elements, element)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrSourceParse, l.path, err)
	}

	return l.elementsToDocs(elements), nil
}

// elementsToDocs converts parsed elements into documents in order.
func (l *Loader) elementsToDocs(elements []map[string]any) []domain.Document {
	baseName := filepath.Base(l.path)
	now := time.Now()

	docs := make([]domain.Document, 0, len(elements))
	for i, element := range elements {
		content := l.elementContent(element)

		metadata := map[string]any{
			"source": baseName,
			"index":  i,
		}
		if l.contentField != "" {
			for k, v := range element {
				if k == l.contentField || !isScalar(v) {
					continue
				}
				metadata[k] = v
			}
		}

		id := uuid.New().String()
		if l.idField != "" {
			if raw, ok := element[l.idField].(string); ok && raw != "" {
				id = raw
			}
		}

		docs = append(docs, domain.Document{
			ID:        id,
			SourceID:  l.sourceID,
			URI:       fmt.Sprintf("%s#%d", l.path, i),
			Title:     fmt.Sprintf("%s element %d", baseName, i),
			Content:   content,
			Metadata:  metadata,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return docs
}

// elementContent extracts the configured content field, falling back to
// the whole element serialised as JSON.
func (l *Loader) elementContent(element map[string]any) string {
	if l.contentField != "" {
		if raw, ok := element[l.contentField].(string); ok {
			return raw
		}
	}

	serialised, err := json.Marshal(element)
	if err != nil {
		return ""
	}
	return string(serialised)
}

// isScalar reports whether a decoded JSON value is a scalar or a list
// of scalars, the only shapes carried into metadata.
func isScalar(v any) bool {
	switch val := v.(type) {
	case string, float64, bool, nil:
		return true
	case []any:
		for _, item := range val {
			switch item.(type) {
			case string, float64, bool:
			default:
				return false
			}
		}
		return true
	default:
		return false
	}
}
