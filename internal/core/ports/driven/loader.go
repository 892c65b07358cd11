package driven

import (
	"context"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
)

// Loader produces documents from a data source.
// Each loader type (csv, jsonfile, directory, etc.) implements this interface.
//
// Loaders are read-only against their source and complete fully before
// the chunking pipeline starts. One Document is produced per logical
// record: one per data row for tabular sources, one per element for
// structured sources, one per matched file for directory sources.
// Ordering matches source traversal order; it is reproducible within a
// single run but not guaranteed stable across filesystems.
type Loader interface {
	// Type returns the loader type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Validate checks if the loader is properly configured.
	// For file loaders, this checks the path exists and is readable.
	// Returns nil if ready to load, error describing the problem otherwise.
	// A missing source wraps domain.ErrNotFound.
	Validate(ctx context.Context) error

	// Load reads the source and returns all documents in source order.
	// An empty source yields an empty slice, not an error.
	// A source that exists but cannot be parsed wraps domain.ErrSourceParse.
	Load(ctx context.Context) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}

// WatchingLoader extends Loader with real-time change notification.
// Only loaders over live sources (e.g., directories) implement it.
type WatchingLoader interface {
	Loader

	// Watch listens for changes to the source and emits one event per
	// affected document until ctx is cancelled.
	Watch(ctx context.Context) (<-chan domain.DocumentChange, error)
}
