package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driving"
	"github.com/custodia-labs/chunka-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// IngestService coordinates loading and chunking for a source.
// The store is optional - if nil, results are returned but not persisted.
type IngestService struct {
	pipeline *ChunkPipeline
	store    driven.ChunkStore

	collectFailures bool
}

// IngestOption configures the ingest service.
type IngestOption func(*IngestService)

// WithCollectFailures makes ingest continue past documents that fail to
// chunk, reporting them in the result instead of aborting the batch.
func WithCollectFailures() IngestOption {
	return func(s *IngestService) {
		s.collectFailures = true
	}
}

// NewIngestService creates a new ingest service.
// The store may be nil to disable persistence.
func NewIngestService(pipeline *ChunkPipeline, store driven.ChunkStore, opts ...IngestOption) *IngestService {
	s := &IngestService{
		pipeline: pipeline,
		store:    store,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Ingest loads all documents from the loader, chunks them with the
// splitter, and persists the result when a store is configured.
func (s *IngestService) Ingest(ctx context.Context, loader driven.Loader, splitter driven.Splitter) (*driving.IngestResult, error) {
	logger.Section(fmt.Sprintf("Ingest %s", loader.SourceID()))

	// 1. Check the source is ready before reading anything.
	if err := loader.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate source: %w", err)
	}

	// 2. Load all documents; loaders complete fully before chunking starts.
	docs, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	logger.Debug("loaded %d documents from %s source", len(docs), loader.Type())

	// 3. Chunk every document with the configured splitter.
	result := &driving.IngestResult{
		SourceID:  loader.SourceID(),
		Documents: docs,
	}

	if s.collectFailures {
		chunks, failures := s.pipeline.ProcessCollect(ctx, docs, splitter)
		result.Chunks = chunks
		result.Failed = failures
		for _, f := range failures {
			logger.Warn("document %d (%s): %v", f.Index, f.DocumentID, f.Err)
		}
	} else {
		chunks, perr := s.pipeline.Process(ctx, docs, splitter)
		if perr != nil {
			return nil, fmt.Errorf("chunk documents: %w", perr)
		}
		result.Chunks = chunks
	}
	logger.Debug("produced %d chunks with %s splitter", len(result.Chunks), splitter.Name())

	// 4. Persist when a store is configured.
	if s.store != nil {
		if err := s.persist(ctx, result); err != nil {
			return nil, err
		}
		logger.Debug("persisted %d documents and %d chunks", len(result.Documents), len(result.Chunks))
	}

	return result, nil
}

// persist stores all documents and their chunks.
func (s *IngestService) persist(ctx context.Context, result *driving.IngestResult) error {
	byDocument := make(map[string][]domain.Chunk)
	for _, chunk := range result.Chunks {
		byDocument[chunk.DocumentID] = append(byDocument[chunk.DocumentID], chunk)
	}

	for i := range result.Documents {
		doc := &result.Documents[i]
		if err := s.store.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("save document %s: %w", doc.ID, err)
		}
		if chunks := byDocument[doc.ID]; len(chunks) > 0 {
			if err := s.store.SaveChunks(ctx, chunks); err != nil {
				return fmt.Errorf("save chunks for %s: %w", doc.ID, err)
			}
		}
	}

	return nil
}
