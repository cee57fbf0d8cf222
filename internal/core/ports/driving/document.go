package driving

import (
	"context"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

// Default chunking and pagination parameters for the public operations.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultListLimit    = 50
)

// VectorizeOptions configures a vectorization run.
type VectorizeOptions struct {
	// ChunkSize is the chunk window size in characters.
	// Zero selects DefaultChunkSize.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks.
	// Nil selects DefaultChunkOverlap; an explicit zero disables
	// overlap.
	ChunkOverlap *int
}

// IngestResult summarizes a successful vectorization run.
type IngestResult struct {
	// DocumentID is the vectorized document.
	DocumentID string `json:"document_id"`

	// ChunksCreated is the number of chunks written to the index.
	ChunksCreated int `json:"chunks_created"`

	// Status is the resulting lifecycle status (processed).
	Status domain.Status `json:"status"`

	// EmbeddingModel is the embedding model identifier.
	EmbeddingModel string `json:"embedding_model"`

	// EmbeddingDimension is the vector length, 0 when no chunks were
	// produced.
	EmbeddingDimension int `json:"embedding_dimension"`
}

// ListOptions configures a document listing.
type ListOptions struct {
	// Status filters by exact lifecycle status. Nil means no filter.
	Status *domain.Status

	// Limit is the page size (>= 1). Zero selects DefaultListLimit.
	Limit int

	// Offset is the number of filtered entries to skip (>= 0).
	Offset int
}

// DocumentEntry is a document enriched with its searchable chunk count.
type DocumentEntry struct {
	domain.Document

	// ChunkCount is the number of vectors the index holds for this
	// document. Zero when the aggregation is unavailable.
	ChunkCount int `json:"chunk_count"`
}

// DocumentPage is one page of a document listing.
type DocumentPage struct {
	// Documents is the page content, in insertion order.
	Documents []DocumentEntry `json:"documents"`

	// Total is the number of documents after filtering, before paging.
	Total int `json:"total"`

	// Limit and Offset echo the effective pagination parameters.
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// DocumentService manages the document lifecycle.
type DocumentService interface {
	// Upload registers a new document with status pending.
	Upload(ctx context.Context, filename string, content []byte) (*domain.Document, error)

	// Vectorize chunks, embeds and indexes a document, transitioning it
	// to processed or error.
	Vectorize(ctx context.Context, documentID string, opts VectorizeOptions) (*IngestResult, error)

	// Get retrieves a document by id.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// List returns a filtered, paginated listing enriched with chunk
	// counts. Aggregation failures degrade to zero counts rather than
	// failing the listing.
	List(ctx context.Context, opts ListOptions) (*DocumentPage, error)
}
