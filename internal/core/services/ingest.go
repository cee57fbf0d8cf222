package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/chunker"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// Vectorize drives a document through chunking, embedding and indexing.
//
// Parameter validation and document resolution happen before any
// mutation; from extraction onwards, any failure records status error on
// the document (leaving partially written vectors as an accepted
// inconsistency) and surfaces the cause. No automatic retry is
// performed: a document in status error can always be vectorized again.
//
// Runs for the same document id serialize; different documents proceed
// in parallel.
func (s *DocumentService) Vectorize(
	ctx context.Context, documentID string, opts driving.VectorizeOptions,
) (*driving.IngestResult, error) {
	if s.embedder == nil {
		return nil, fmt.Errorf("%w: embedding service not configured", domain.ErrEmbeddingUnavailable)
	}

	size := opts.ChunkSize
	if size == 0 {
		size = driving.DefaultChunkSize
	}
	overlap := driving.DefaultChunkOverlap
	if opts.ChunkOverlap != nil {
		overlap = *opts.ChunkOverlap
	}

	// Validate before touching the registry.
	if err := chunker.Validate(size, overlap); err != nil {
		return nil, err
	}

	s.locks.Lock(documentID)
	defer s.locks.Unlock(documentID)

	doc, err := s.registry.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}

	logger.Section("Vectorize " + documentID)
	logger.Debug("chunk_size=%d overlap=%d", size, overlap)

	result, err := s.ingest(ctx, doc, size, overlap)
	if err != nil {
		s.markError(ctx, doc)
		return nil, err
	}

	doc.Status = domain.StatusProcessed
	if err := s.registry.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: recording processed status: %v", domain.ErrStorageFailure, err)
	}

	logger.Info("Document %s processed: %d chunks", documentID, result.ChunksCreated)
	return result, nil
}

// ingest runs extraction, chunking, embedding and the batch index write.
// The caller owns the status transition.
func (s *DocumentService) ingest(
	ctx context.Context, doc *domain.Document, size, overlap int,
) (*driving.IngestResult, error) {
	text, err := extractText(doc)
	if err != nil {
		return nil, err
	}

	texts, err := chunker.Split(text, size, overlap)
	if err != nil {
		return nil, err
	}
	logger.Debug("Split into %d chunks", len(texts))

	embeddings, err := s.embedAll(ctx, texts)
	if err != nil {
		return nil, err
	}

	// Drop vectors from any previous run first, so a re-vectorized
	// document never leaves stale chunks searchable.
	if err := s.index.DeleteByDocument(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("%w: deleting stale vectors: %v", domain.ErrStorageFailure, err)
	}

	dimension := 0
	if len(embeddings) > 0 {
		dimension = len(embeddings[0])

		records := make([]driven.VectorRecord, len(texts))
		for i := range texts {
			records[i] = driven.VectorRecord{
				ID:        uuid.New().String(),
				Embedding: embeddings[i],
				Content:   texts[i],
				Metadata: map[string]any{
					driven.MetaDocumentID: doc.ID,
					driven.MetaChunkIndex: i,
				},
			}
		}
		if err := s.index.AddBatch(ctx, records); err != nil {
			return nil, fmt.Errorf("%w: writing vectors: %v", domain.ErrStorageFailure, err)
		}
	}

	// Refresh the cached text alongside the status update.
	doc.OriginalText = &text

	return &driving.IngestResult{
		DocumentID:         doc.ID,
		ChunksCreated:      len(texts),
		Status:             domain.StatusProcessed,
		EmbeddingModel:     s.embedder.ModelName(),
		EmbeddingDimension: dimension,
	}, nil
}

// embedAll requests a document-intent embedding for every chunk.
// Dispatch is concurrent up to the configured fan-out limit, but the
// returned slice is indexed by chunk ordinal, so ordinal assignment is
// preserved regardless of completion order.
func (s *DocumentService) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	embeddings := make([][]float32, len(texts))
	sem := make(chan struct{}, s.embedConcurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for i := range texts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed {
				return
			}

			vec, err := s.embedder.Embed(ctx, texts[i], driven.IntentDocument)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			embeddings[i] = vec
		}(i)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, fmt.Errorf("embedding chunks: %w", firstErr)
	}
	return embeddings, nil
}

// extractText returns the document's plain text content.
func extractText(doc *domain.Document) (string, error) {
	if doc.FileType != domain.FileTypeText {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedType, doc.FileType)
	}
	if doc.OriginalText == nil {
		return "", fmt.Errorf("%w: document %s has no stored text", domain.ErrStorageFailure, doc.ID)
	}
	return *doc.OriginalText, nil
}

// markError records a failed vectorization attempt. A failure to record
// the status is logged but not surfaced: the original pipeline error is
// the one the caller needs.
func (s *DocumentService) markError(ctx context.Context, doc *domain.Document) {
	doc.Status = domain.StatusError
	if err := s.registry.Save(ctx, doc); err != nil {
		logger.Warn("Failed to record error status for %s: %v", doc.ID, err)
	}
}
