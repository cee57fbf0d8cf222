// Package memory provides an in-memory vector index for tests and
// single-process runs without a Chroma server.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds vector records in memory and ranks by cosine distance.
type Index struct {
	mu      sync.RWMutex
	records []driven.VectorRecord
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{}
}

// AddBatch appends records to the index.
func (x *Index) AddBatch(_ context.Context, records []driven.VectorRecord) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.records = append(x.records, records...)
	return nil
}

// Query returns up to topK records nearest to the embedding, ordered by
// ascending cosine distance.
func (x *Index) Query(_ context.Context, embedding []float32, topK int) ([]driven.VectorHit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(x.records))
	for _, rec := range x.records {
		d := cosineDistance(embedding, rec.Embedding)
		hits = append(hits, driven.VectorHit{
			ChunkID:  rec.ID,
			Content:  rec.Content,
			Metadata: rec.Metadata,
			Distance: &d,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return *hits[i].Distance < *hits[j].Distance
	})

	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// ListMetadata returns the metadata of every stored record.
func (x *Index) ListMetadata(_ context.Context) ([]map[string]any, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	metas := make([]map[string]any, len(x.records))
	for i, rec := range x.records {
		metas[i] = rec.Metadata
	}
	return metas, nil
}

// DeleteByDocument removes every record whose metadata carries the
// given document id.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.records[:0]
	for _, rec := range x.records {
		if id, ok := rec.Metadata[driven.MetaDocumentID].(string); ok && id == documentID {
			continue
		}
		kept = append(kept, rec)
	}
	x.records = kept
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineDistance returns 1 - cosine similarity. Zero vectors and
// mismatched lengths yield the maximum distance 1.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
