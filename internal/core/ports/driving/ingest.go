package driving

import (
	"context"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
)

// Ingestor coordinates loading and chunking for a source.
type Ingestor interface {
	// Ingest loads all documents from the loader, chunks them with the
	// splitter, and returns the result. If a chunk store is configured,
	// documents and chunks are persisted as well.
	Ingest(ctx context.Context, loader driven.Loader, splitter driven.Splitter) (*IngestResult, error)
}

// IngestResult summarises one ingest run.
type IngestResult struct {
	// SourceID identifies the source that was ingested.
	SourceID string

	// Documents are the loaded documents, in source order.
	Documents []domain.Document

	// Chunks are all produced chunks, preserving document order and
	// intra-document chunk order.
	Chunks []domain.Chunk

	// Failed records per-document failures when the ingestor runs with
	// a recoverable-failure boundary. Empty in fail-fast mode.
	Failed []DocumentFailure
}

// DocumentFailure locates a document that could not be chunked.
// It carries enough context for a caller to retry just that item.
type DocumentFailure struct {
	// Index is the document's position in the loaded sequence.
	Index int

	// DocumentID is the failing document's ID.
	DocumentID string

	// Err is the splitter error.
	Err error
}
