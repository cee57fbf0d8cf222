package driven

import "context"

// Metadata keys attached to every vector record.
const (
	MetaDocumentID = "document_id"
	MetaChunkIndex = "chunk_index"
)

// VectorRecord is the persisted projection of a chunk in the vector
// index: id, embedding, raw text, and a metadata map carrying at least
// the owning document id and chunk ordinal.
type VectorRecord struct {
	// ID is the unique record id (chunk id).
	ID string

	// Embedding is the vector to index.
	Embedding []float32

	// Content is the raw chunk text.
	Content string

	// Metadata carries document_id and chunk_index.
	Metadata map[string]any
}

// VectorHit is a nearest-neighbour result.
type VectorHit struct {
	// ChunkID is the matched record id.
	ChunkID string

	// Content is the stored chunk text.
	Content string

	// Metadata is the stored metadata map.
	Metadata map[string]any

	// Distance is the raw distance reported by the index.
	// Nil when the index did not report one.
	Distance *float64
}

// VectorIndex stores embeddings with metadata and answers
// nearest-neighbour queries. It exclusively owns the searchable chunk
// copies; the document registry owns the authoritative metadata, and no
// transaction spans both stores.
type VectorIndex interface {
	// AddBatch writes a batch of records in a single call.
	AddBatch(ctx context.Context, records []VectorRecord) error

	// Query returns the topK nearest records to the embedding, ranked
	// by the index. Fewer than topK hits is not an error.
	Query(ctx context.Context, embedding []float32, topK int) ([]VectorHit, error)

	// ListMetadata enumerates the metadata of every stored record.
	// Used only for chunk-count aggregation.
	ListMetadata(ctx context.Context) ([]map[string]any, error)

	// DeleteByDocument removes all records owned by a document.
	// Called before re-vectorization so stale chunks never remain
	// searchable.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Close releases resources.
	Close() error
}
