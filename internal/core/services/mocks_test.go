package services

import (
	"context"
	"sync"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
)

// mockRegistry is an in-memory driven.DocumentRegistry with injectable
// failures.
type mockRegistry struct {
	mu      sync.Mutex
	docs    map[string]*domain.Document
	order   []string
	saveErr error
	listErr error
}

func newMockRegistry() *mockRegistry {
	return &mockRegistry{docs: make(map[string]*domain.Document)}
}

func (m *mockRegistry) Save(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := *doc
	if doc.OriginalText != nil {
		text := *doc.OriginalText
		clone.OriginalText = &text
	}
	if _, ok := m.docs[doc.ID]; !ok {
		m.order = append(m.order, doc.ID)
	}
	m.docs[doc.ID] = &clone
	return nil
}

func (m *mockRegistry) Get(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
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

func (m *mockRegistry) List(context.Context) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	docs := make([]domain.Document, 0, len(m.order))
	for _, id := range m.order {
		docs = append(docs, *m.docs[id])
	}
	return docs, nil
}

func (m *mockRegistry) Close() error { return nil }

// status returns the stored status for assertions.
func (m *mockRegistry) status(id string) domain.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.docs[id].Status
}

// mockIndex is an in-memory driven.VectorIndex with injectable
// failures.
type mockIndex struct {
	mu        sync.Mutex
	records   []driven.VectorRecord
	hits      []driven.VectorHit
	addErr    error
	queryErr  error
	listErr   error
	deleteErr error
	deletes   []string
}

func (m *mockIndex) AddBatch(_ context.Context, records []driven.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.records = append(m.records, records...)
	return nil
}

func (m *mockIndex) Query(context.Context, []float32, int) ([]driven.VectorHit, error) {
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	return m.hits, nil
}

func (m *mockIndex) ListMetadata(context.Context) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	metas := make([]map[string]any, len(m.records))
	for i, rec := range m.records {
		metas[i] = rec.Metadata
	}
	return metas, nil
}

func (m *mockIndex) DeleteByDocument(_ context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes = append(m.deletes, documentID)
	kept := m.records[:0]
	for _, rec := range m.records {
		if id, ok := rec.Metadata[driven.MetaDocumentID].(string); ok && id == documentID {
			continue
		}
		kept = append(kept, rec)
	}
	m.records = kept
	return nil
}

func (m *mockIndex) Close() error { return nil }

// documentRecords returns stored records for a document, in insertion
// order.
func (m *mockIndex) documentRecords(documentID string) []driven.VectorRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []driven.VectorRecord
	for _, rec := range m.records {
		if id, ok := rec.Metadata[driven.MetaDocumentID].(string); ok && id == documentID {
			out = append(out, rec)
		}
	}
	return out
}

// mockEmbedder returns deterministic embeddings and counts calls.
type mockEmbedder struct {
	mu       sync.Mutex
	calls    int
	embedErr error
	vector   []float32
}

func (m *mockEmbedder) Embed(_ context.Context, text string, _ driven.EmbeddingIntent) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.vector != nil {
		return m.vector, nil
	}
	// Deterministic per-text vector so ordinal mixups are detectable.
	return []float32{float32(len(text)), 1}, nil
}

func (m *mockEmbedder) ModelName() string          { return "mock-embedding" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

func (m *mockEmbedder) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockGenerator returns a fixed answer and counts calls.
type mockGenerator struct {
	mu     sync.Mutex
	calls  int
	answer string
	genErr error
	prompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompt = prompt
	m.mu.Unlock()
	if m.genErr != nil {
		return "", m.genErr
	}
	return m.answer, nil
}

func (m *mockGenerator) ModelName() string          { return "mock-llm" }
func (m *mockGenerator) Ping(context.Context) error { return nil }
func (m *mockGenerator) Close() error               { return nil }

func (m *mockGenerator) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
