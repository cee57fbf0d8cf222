package mcp

import (
	"context"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

// mockQueryService is a hand-rolled mock for driving.QueryService.
type mockQueryService struct {
	answerFunc func(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
	lastReq    domain.QueryRequest
}

func (m *mockQueryService) Answer(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	m.lastReq = req
	return m.answerFunc(ctx, req)
}

// mockDocumentService is a hand-rolled mock for driving.DocumentService.
type mockDocumentService struct {
	listFunc func(ctx context.Context, opts driving.ListOptions) (*driving.DocumentPage, error)
	lastOpts driving.ListOptions
}

func (m *mockDocumentService) Upload(context.Context, string, []byte) (*domain.Document, error) {
	panic("not implemented")
}

func (m *mockDocumentService) Vectorize(context.Context, string, driving.VectorizeOptions) (*driving.IngestResult, error) {
	panic("not implemented")
}

func (m *mockDocumentService) Get(context.Context, string) (*domain.Document, error) {
	panic("not implemented")
}

func (m *mockDocumentService) List(ctx context.Context, opts driving.ListOptions) (*driving.DocumentPage, error) {
	m.lastOpts = opts
	return m.listFunc(ctx, opts)
}
