package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

func TestNewServer_RequiresQueryService(t *testing.T) {
	_, err := NewServer(&Ports{})
	assert.ErrorIs(t, err, ErrMissingQueryService)
}

func TestNewServer_DocumentServiceOptional(t *testing.T) {
	srv, err := NewServer(&Ports{Query: &mockQueryService{}})
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

func TestHandleQuery_AppliesDefaults(t *testing.T) {
	query := &mockQueryService{
		answerFunc: func(_ context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
			return &domain.QueryResponse{
				Answer:          "the answer",
				RetrievedChunks: []domain.RetrievedChunk{},
				Model:           "gemini-2.0-flash",
			}, nil
		},
	}
	srv, err := NewServer(&Ports{Query: query})
	require.NoError(t, err)

	_, output, err := srv.handleQuery(context.Background(), nil, QueryInput{
		Question: "What is DevContainer?",
	})
	require.NoError(t, err)

	assert.Equal(t, "the answer", output.Answer)
	assert.Equal(t, domain.DefaultTopK, query.lastReq.TopK)
	assert.Equal(t, domain.DefaultTemperature, query.lastReq.Temperature)
	assert.Equal(t, domain.DefaultMaxTokens, query.lastReq.MaxTokens)
}

func TestHandleQuery_ExplicitParameters(t *testing.T) {
	query := &mockQueryService{
		answerFunc: func(context.Context, domain.QueryRequest) (*domain.QueryResponse, error) {
			return &domain.QueryResponse{}, nil
		},
	}
	srv, err := NewServer(&Ports{Query: query})
	require.NoError(t, err)

	topK, temp, tokens := 3, 0.2, 200
	_, _, err = srv.handleQuery(context.Background(), nil, QueryInput{
		Question:    "q",
		TopK:        &topK,
		Temperature: &temp,
		MaxTokens:   &tokens,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, query.lastReq.TopK)
	assert.Equal(t, 0.2, query.lastReq.Temperature)
	assert.Equal(t, 200, query.lastReq.MaxTokens)
}

func TestHandleQuery_MapsChunks(t *testing.T) {
	docID := "d1"
	query := &mockQueryService{
		answerFunc: func(context.Context, domain.QueryRequest) (*domain.QueryResponse, error) {
			return &domain.QueryResponse{
				Answer: "grounded answer",
				RetrievedChunks: []domain.RetrievedChunk{
					{ChunkID: "c1", DocumentID: &docID, Content: "alpha", SimilarityScore: 0.88},
					{ChunkID: "c2", Content: "beta", SimilarityScore: 0.52},
				},
			}, nil
		},
	}
	srv, err := NewServer(&Ports{Query: query})
	require.NoError(t, err)

	_, output, err := srv.handleQuery(context.Background(), nil, QueryInput{Question: "q"})
	require.NoError(t, err)

	require.Len(t, output.Chunks, 2)
	assert.Equal(t, "d1", output.Chunks[0].DocumentID)
	assert.Equal(t, 0.88, output.Chunks[0].SimilarityScore)
	assert.Empty(t, output.Chunks[1].DocumentID)
}

func TestHandleQuery_PropagatesError(t *testing.T) {
	query := &mockQueryService{
		answerFunc: func(context.Context, domain.QueryRequest) (*domain.QueryResponse, error) {
			return nil, errors.New("retrieval down")
		},
	}
	srv, err := NewServer(&Ports{Query: query})
	require.NoError(t, err)

	_, _, err = srv.handleQuery(context.Background(), nil, QueryInput{Question: "q"})
	assert.Error(t, err)
}

func TestHandleListDocuments(t *testing.T) {
	docs := &mockDocumentService{
		listFunc: func(_ context.Context, opts driving.ListOptions) (*driving.DocumentPage, error) {
			return &driving.DocumentPage{
				Documents: []driving.DocumentEntry{
					{
						Document:   domain.Document{ID: "d1", Filename: "a.txt", Status: domain.StatusProcessed},
						ChunkCount: 4,
					},
				},
				Total: 1,
			}, nil
		},
	}
	srv, err := NewServer(&Ports{Query: &mockQueryService{}, Document: docs})
	require.NoError(t, err)

	_, output, err := srv.handleListDocuments(context.Background(), nil, ListDocumentsInput{
		Status: "processed",
	})
	require.NoError(t, err)

	require.NotNil(t, docs.lastOpts.Status)
	assert.Equal(t, domain.StatusProcessed, *docs.lastOpts.Status)
	require.Len(t, output.Documents, 1)
	assert.Equal(t, "d1", output.Documents[0].DocumentID)
	assert.Equal(t, 4, output.Documents[0].ChunkCount)
	assert.Equal(t, 1, output.Total)
}
