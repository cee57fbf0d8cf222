package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the document lifecycle: upload, vectorization,
// retrieval and listing.
type DocumentService struct {
	registry driven.DocumentRegistry
	index    driven.VectorIndex
	embedder driven.EmbeddingService

	// embedConcurrency bounds the embedding fan-out during ingestion.
	embedConcurrency int

	// locks serializes vectorization per document id.
	locks *keyedMutex
}

// Option configures the document service.
type Option func(*DocumentService)

// WithEmbedConcurrency sets the embedding fan-out limit for ingestion.
func WithEmbedConcurrency(n int) Option {
	return func(s *DocumentService) {
		if n > 0 {
			s.embedConcurrency = n
		}
	}
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	registry driven.DocumentRegistry,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	opts ...Option,
) *DocumentService {
	s := &DocumentService{
		registry:         registry,
		index:            index,
		embedder:         embedder,
		embedConcurrency: 4,
		locks:            newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload registers a new document with status pending. The raw text is
// stored durably through the registry so vectorization can run later.
func (s *DocumentService) Upload(ctx context.Context, filename string, content []byte) (*domain.Document, error) {
	doc, err := domain.NewDocument(uuid.New().String(), filename, string(content))
	if err != nil {
		return nil, err
	}

	if err := s.registry.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: saving document: %v", domain.ErrStorageFailure, err)
	}

	logger.Info("Uploaded document %s (%s, %d bytes)", doc.ID, doc.Filename, len(content))
	return doc, nil
}

// Get retrieves a document by id.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	return s.registry.Get(ctx, documentID)
}

// List returns a filtered, paginated listing enriched with chunk counts
// aggregated from the vector index metadata. When the aggregation fails
// the listing still succeeds with zero counts: availability over
// completeness.
func (s *DocumentService) List(ctx context.Context, opts driving.ListOptions) (*driving.DocumentPage, error) {
	limit := opts.Limit
	if limit == 0 {
		limit = driving.DefaultListLimit
	}
	if limit < 1 || opts.Offset < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 1 and offset >= 0", domain.ErrInvalidParameter)
	}
	if opts.Status != nil && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidParameter, *opts.Status)
	}

	docs, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listing documents: %v", domain.ErrStorageFailure, err)
	}

	// Filter before paginating, preserving insertion order.
	filtered := docs
	if opts.Status != nil {
		filtered = make([]domain.Document, 0, len(docs))
		for _, doc := range docs {
			if doc.Status == *opts.Status {
				filtered = append(filtered, doc)
			}
		}
	}

	counts := s.chunkCounts(ctx)

	total := len(filtered)
	page := paginate(filtered, opts.Offset, limit)

	entries := make([]driving.DocumentEntry, len(page))
	for i, doc := range page {
		entries[i] = driving.DocumentEntry{
			Document:   doc,
			ChunkCount: counts[doc.ID],
		}
	}

	return &driving.DocumentPage{
		Documents: entries,
		Total:     total,
		Limit:     limit,
		Offset:    opts.Offset,
	}, nil
}

// chunkCounts aggregates per-document chunk counts from the vector index
// metadata. Failures degrade to an empty map.
func (s *DocumentService) chunkCounts(ctx context.Context) map[string]int {
	counts := make(map[string]int)

	metadatas, err := s.index.ListMetadata(ctx)
	if err != nil {
		logger.Warn("Chunk count aggregation failed, defaulting to zero: %v", err)
		return counts
	}

	for _, meta := range metadatas {
		id, ok := meta[driven.MetaDocumentID].(string)
		if !ok || id == "" {
			continue
		}
		counts[id]++
	}

	return counts
}

// paginate slices docs to the requested window.
func paginate(docs []domain.Document, offset, limit int) []domain.Document {
	if offset >= len(docs) {
		return nil
	}
	end := offset + limit
	if end > len(docs) {
		end = len(docs)
	}
	return docs[offset:end]
}
