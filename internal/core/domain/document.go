package domain

import "time"

// Document represents a loaded document with metadata.
// It is the canonical representation a loader produces.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// SourceID links to the Source that produced this document.
	SourceID string

	// URI is the original location (file path, row reference, etc).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full text content.
	// This is the complete document text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the document was first loaded.
	CreatedAt time.Time

	// UpdatedAt is when the document was last updated.
	UpdatedAt time.Time
}

// Chunk represents one piece of a document after splitting.
// Documents are split into chunks for downstream consumers
// such as an embedding or indexing step.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the parent Document.
	DocumentID string

	// Content is the text content of this chunk.
	Content string

	// Index is the ordinal position within the document,
	// in [0, TotalChunks).
	Index int

	// TotalChunks is the number of chunks produced from the
	// parent document by a single split.
	TotalChunks int

	// Metadata contains chunk-specific key-value pairs, merged
	// from the parent document's metadata per MergeMetadata.
	Metadata map[string]any
}

// Metadata keys derived during chunking. Derived keys overwrite
// parent keys on collision.
const (
	// MetaChunkIndex is the key carrying Chunk.Index in metadata.
	MetaChunkIndex = "chunk_index"

	// MetaTotalChunks is the key carrying Chunk.TotalChunks in metadata.
	MetaTotalChunks = "total_chunks"
)

// MergeMetadata combines metadata maps under a last-write-wins policy:
// keys from later maps overwrite keys from earlier maps. The inputs are
// never mutated; the result is always a freshly allocated map so chunks
// derived from the same parent do not share state.
func MergeMetadata(maps ...map[string]any) map[string]any {
	merged := make(map[string]any)
	for _, m := range maps {
		for k, v := range m {
			merged[k] = v
		}
	}
	return merged
}
