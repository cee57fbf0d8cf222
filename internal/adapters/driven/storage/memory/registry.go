// Package memory provides an in-memory document registry for tests.
package memory

import (
	"context"
	"sync"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// Registry is an in-memory implementation of driven.DocumentRegistry.
// Documents are listed in insertion order.
type Registry struct {
	mu    sync.RWMutex
	docs  map[string]*domain.Document
	order []string
}

// NewRegistry creates an empty in-memory registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]*domain.Document)}
}

// Save stores or updates a document. Updates keep the document's
// original position in the listing.
func (r *Registry) Save(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *doc
	if doc.OriginalText != nil {
		text := *doc.OriginalText
		clone.OriginalText = &text
	}

	if _, exists := r.docs[doc.ID]; !exists {
		r.order = append(r.order, doc.ID)
	}
	r.docs[doc.ID] = &clone
	return nil
}

// Get retrieves a document by id.
func (r *Registry) Get(_ context.Context, id string) (*domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}

	clone := *doc
	if doc.OriginalText != nil {
		text := *doc.OriginalText
		clone.OriginalText = &text
	}
	return &clone, nil
}

// List returns all documents in insertion order.
func (r *Registry) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]domain.Document, 0, len(r.order))
	for _, id := range r.order {
		docs = append(docs, *r.docs[id])
	}
	return docs, nil
}

// Close releases resources.
func (r *Registry) Close() error {
	return nil
}
