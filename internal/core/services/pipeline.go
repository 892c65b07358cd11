package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/chunka-cli/internal/core/domain"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driven"
	"github.com/custodia-labs/chunka-cli/internal/core/ports/driving"
)

// ChunkPipeline applies one splitter to a sequence of documents and
// produces a flat sequence of chunks.
//
// The pipeline is a pure transformation over in-memory values: document
// order and intra-document chunk order are always preserved in the
// output, whether it runs sequentially or with workers. Each chunk's
// metadata is the parent document's metadata merged with the splitter's
// piece metadata and the derived chunk_index/total_chunks keys; derived
// keys win on collision.
type ChunkPipeline struct {
	workers int
}

// PipelineOption configures the chunk pipeline.
type PipelineOption func(*ChunkPipeline)

// WithWorkers sets the number of documents split concurrently.
// Values below 2 keep the pipeline sequential. Output ordering is
// unaffected: chunk lists are reassembled in document order.
func WithWorkers(n int) PipelineOption {
	return func(p *ChunkPipeline) {
		if n > 1 {
			p.workers = n
		}
	}
}

// NewChunkPipeline creates a chunk pipeline with the given options.
func NewChunkPipeline(opts ...PipelineOption) *ChunkPipeline {
	p := &ChunkPipeline{workers: 1}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Process chunks all documents in order, failing fast on the first
// splitter error. The error names the offending document's index and ID
// so a caller can retry just that item.
func (p *ChunkPipeline) Process(ctx context.Context, docs []domain.Document, splitter driven.Splitter) ([]domain.Chunk, error) {
	perDoc, failures := p.run(ctx, docs, splitter, true)
	if len(failures) > 0 {
		f := failures[0]
		return nil, fmt.Errorf("document %d (%s): %w", f.Index, f.DocumentID, f.Err)
	}
	return flatten(perDoc), nil
}

// ProcessCollect chunks all documents in order, collecting per-document
// failures instead of aborting. Documents that fail contribute no
// chunks; the rest are returned in the usual order.
func (p *ChunkPipeline) ProcessCollect(ctx context.Context, docs []domain.Document, splitter driven.Splitter) ([]domain.Chunk, []driving.DocumentFailure) {
	perDoc, failures := p.run(ctx, docs, splitter, false)
	return flatten(perDoc), failures
}

// run splits every document and returns per-document chunk lists
// indexed by document position, plus any failures sorted by position.
func (p *ChunkPipeline) run(ctx context.Context, docs []domain.Document, splitter driven.Splitter, failFast bool) ([][]domain.Chunk, []driving.DocumentFailure) {
	perDoc := make([][]domain.Chunk, len(docs))

	if p.workers <= 1 {
		var failures []driving.DocumentFailure
		for i := range docs {
			chunks, err := chunkDocument(ctx, &docs[i], splitter)
			if err != nil {
				failures = append(failures, driving.DocumentFailure{
					Index:      i,
					DocumentID: docs[i].ID,
					Err:        err,
				})
				if failFast {
					return nil, failures
				}
				continue
			}
			perDoc[i] = chunks
		}
		return perDoc, failures
	}

	// Chunking one document never depends on another, so documents can
	// be split concurrently. Results land in their original slot.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	failureCh := make(chan driving.DocumentFailure, len(docs))

	for i := range docs {
		i := i
		g.Go(func() error {
			chunks, err := chunkDocument(gctx, &docs[i], splitter)
			if err != nil {
				failureCh <- driving.DocumentFailure{
					Index:      i,
					DocumentID: docs[i].ID,
					Err:        err,
				}
				if failFast {
					return err
				}
				return nil
			}
			perDoc[i] = chunks
			return nil
		})
	}

	_ = g.Wait()
	close(failureCh)

	var failures []driving.DocumentFailure
	for f := range failureCh {
		failures = append(failures, f)
	}
	sort.Slice(failures, func(a, b int) bool {
		return failures[a].Index < failures[b].Index
	})

	return perDoc, failures
}

// chunkDocument splits one document's content and builds its chunks.
// An empty document yields zero chunks and no error.
func chunkDocument(ctx context.Context, doc *domain.Document, splitter driven.Splitter) ([]domain.Chunk, error) {
	pieces, err := splitter.Split(ctx, doc.Content)
	if err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, nil
	}

	total := len(pieces)
	chunks := make([]domain.Chunk, 0, total)

	for i, piece := range pieces {
		// Chunk IDs are derived from the parent ID and position, so
		// re-running the pipeline on the same input yields identical
		// chunks and stores can upsert idempotently.
		id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%s/%d", doc.ID, i))

		chunks = append(chunks, domain.Chunk{
			ID:          id.String(),
			DocumentID:  doc.ID,
			Content:     piece.Text,
			Index:       i,
			TotalChunks: total,
			Metadata: domain.MergeMetadata(doc.Metadata, piece.Metadata, map[string]any{
				domain.MetaChunkIndex:  i,
				domain.MetaTotalChunks: total,
			}),
		})
	}

	return chunks, nil
}

// flatten concatenates per-document chunk lists preserving both
// document order and intra-document chunk order.
func flatten(perDoc [][]domain.Chunk) []domain.Chunk {
	var out []domain.Chunk
	for _, chunks := range perDoc {
		out = append(out, chunks...)
	}
	return out
}
