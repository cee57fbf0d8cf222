package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
)

func newTestQueryService() (*QueryService, *mockEmbedder, *mockIndex, *mockGenerator) {
	embedder := &mockEmbedder{}
	index := &mockIndex{}
	generator := &mockGenerator{answer: "generated answer"}
	return NewQueryService(embedder, index, generator), embedder, index, generator
}

func defaultRequest(question string) domain.QueryRequest {
	return domain.QueryRequest{
		Question:    question,
		TopK:        domain.DefaultTopK,
		Temperature: domain.DefaultTemperature,
		MaxTokens:   domain.DefaultMaxTokens,
	}
}

func distPtr(d float64) *float64 { return &d }

func hit(chunkID, docID, content string, distance *float64) driven.VectorHit {
	h := driven.VectorHit{
		ChunkID:  chunkID,
		Content:  content,
		Distance: distance,
	}
	if docID != "" {
		h.Metadata = map[string]any{driven.MetaDocumentID: docID}
	}
	return h
}

func TestAnswer_HappyPath(t *testing.T) {
	svc, _, index, generator := newTestQueryService()
	index.hits = []driven.VectorHit{
		hit("c1", "d1", "first chunk", distPtr(0.1)),
		hit("c2", "d2", "second chunk", distPtr(0.4)),
	}

	resp, err := svc.Answer(context.Background(), defaultRequest("what is this?"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.QueryID)
	assert.Equal(t, "what is this?", resp.Question)
	assert.Equal(t, "generated answer", resp.Answer)
	assert.Equal(t, "mock-llm", resp.Model)
	assert.Equal(t, 1, generator.callCount())

	require.Len(t, resp.RetrievedChunks, 2)
	first := resp.RetrievedChunks[0]
	assert.Equal(t, "c1", first.ChunkID)
	require.NotNil(t, first.DocumentID)
	assert.Equal(t, "d1", *first.DocumentID)
	assert.InDelta(t, 0.9, first.SimilarityScore, 1e-9)
	assert.InDelta(t, 0.6, resp.RetrievedChunks[1].SimilarityScore, 1e-9)
}

func TestAnswer_Validation(t *testing.T) {
	svc, embedder, _, _ := newTestQueryService()

	tests := []struct {
		name string
		req  domain.QueryRequest
	}{
		{"empty question", domain.QueryRequest{Question: "  ", TopK: 5, Temperature: 0.7, MaxTokens: 500}},
		{"top_k too small", domain.QueryRequest{Question: "q", TopK: 0, Temperature: 0.7, MaxTokens: 500}},
		{"top_k too large", domain.QueryRequest{Question: "q", TopK: 21, Temperature: 0.7, MaxTokens: 500}},
		{"temperature negative", domain.QueryRequest{Question: "q", TopK: 5, Temperature: -0.1, MaxTokens: 500}},
		{"temperature too large", domain.QueryRequest{Question: "q", TopK: 5, Temperature: 2.1, MaxTokens: 500}},
		{"max_tokens zero", domain.QueryRequest{Question: "q", TopK: 5, Temperature: 0.7, MaxTokens: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Answer(context.Background(), tt.req)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
		})
	}
	assert.Zero(t, embedder.callCount())
}

func TestAnswer_BoundaryParamsAccepted(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	index.hits = []driven.VectorHit{hit("c1", "d1", "x", distPtr(0.2))}

	tests := []domain.QueryRequest{
		{Question: "q", TopK: 1, Temperature: 0.0, MaxTokens: 1},
		{Question: "q", TopK: 20, Temperature: 2.0, MaxTokens: 500},
	}
	for i, req := range tests {
		t.Run(fmt.Sprintf("case%d", i), func(t *testing.T) {
			_, err := svc.Answer(context.Background(), req)
			assert.NoError(t, err)
		})
	}
}

func TestAnswer_QueryIntent(t *testing.T) {
	embedder := &intentRecordingEmbedder{}
	index := &mockIndex{}
	svc := NewQueryService(embedder, index, &mockGenerator{})

	_, err := svc.Answer(context.Background(), defaultRequest("q"))
	require.NoError(t, err)
	assert.Equal(t, driven.IntentQuery, embedder.intent)
}

// intentRecordingEmbedder captures the intent hint of the last call.
type intentRecordingEmbedder struct {
	intent driven.EmbeddingIntent
}

func (e *intentRecordingEmbedder) Embed(_ context.Context, _ string, intent driven.EmbeddingIntent) ([]float32, error) {
	e.intent = intent
	return []float32{1, 0}, nil
}

func (e *intentRecordingEmbedder) ModelName() string          { return "mock-embedding" }
func (e *intentRecordingEmbedder) Ping(context.Context) error { return nil }
func (e *intentRecordingEmbedder) Close() error               { return nil }

func TestAnswer_NoHits(t *testing.T) {
	svc, _, _, generator := newTestQueryService()

	resp, err := svc.Answer(context.Background(), defaultRequest("anything indexed?"))
	require.NoError(t, err)

	assert.Equal(t, NoHitAnswer, resp.Answer)
	require.NotNil(t, resp.RetrievedChunks)
	assert.Empty(t, resp.RetrievedChunks)
	assert.Equal(t, "mock-llm", resp.Model)
	// No generation call is made when retrieval comes back empty.
	assert.Zero(t, generator.callCount())
}

func TestAnswer_FewerHitsThanTopK(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	index.hits = []driven.VectorHit{
		hit("c1", "d1", "a", distPtr(0.1)),
		hit("c2", "d1", "b", distPtr(0.2)),
	}

	req := defaultRequest("q")
	req.TopK = 20
	resp, err := svc.Answer(context.Background(), req)
	require.NoError(t, err)
	assert.Len(t, resp.RetrievedChunks, 2)
}

func TestAnswer_MissingDistanceScoresZero(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	index.hits = []driven.VectorHit{hit("c1", "d1", "a", nil)}

	resp, err := svc.Answer(context.Background(), defaultRequest("q"))
	require.NoError(t, err)

	require.Len(t, resp.RetrievedChunks, 1)
	assert.Zero(t, resp.RetrievedChunks[0].SimilarityScore)
}

func TestAnswer_MissingDocumentMetadata(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	index.hits = []driven.VectorHit{hit("c1", "", "a", distPtr(0.3))}

	resp, err := svc.Answer(context.Background(), defaultRequest("q"))
	require.NoError(t, err)

	require.Len(t, resp.RetrievedChunks, 1)
	assert.Nil(t, resp.RetrievedChunks[0].DocumentID)
}

func TestAnswer_OrderPreserved(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	// Deliberately not sorted by distance: the index order stands.
	index.hits = []driven.VectorHit{
		hit("c1", "d1", "a", distPtr(0.5)),
		hit("c2", "d1", "b", distPtr(0.1)),
		hit("c3", "d1", "c", distPtr(0.3)),
	}

	resp, err := svc.Answer(context.Background(), defaultRequest("q"))
	require.NoError(t, err)

	require.Len(t, resp.RetrievedChunks, 3)
	assert.Equal(t, "c1", resp.RetrievedChunks[0].ChunkID)
	assert.Equal(t, "c2", resp.RetrievedChunks[1].ChunkID)
	assert.Equal(t, "c3", resp.RetrievedChunks[2].ChunkID)
}

func TestAnswer_PromptContainsChunksAndQuestion(t *testing.T) {
	svc, _, index, generator := newTestQueryService()
	index.hits = []driven.VectorHit{
		hit("c1", "d1", "alpha content", distPtr(0.1)),
		hit("c2", "d1", "beta content", distPtr(0.2)),
	}

	_, err := svc.Answer(context.Background(), defaultRequest("the question"))
	require.NoError(t, err)

	assert.Contains(t, generator.prompt, "alpha content\n\nbeta content")
	assert.Contains(t, generator.prompt, "the question")
}

func TestAnswer_EmbedFailure(t *testing.T) {
	svc, embedder, _, generator := newTestQueryService()
	embedder.embedErr = errors.New("api down")

	_, err := svc.Answer(context.Background(), defaultRequest("q"))
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Zero(t, generator.callCount())
}

func TestAnswer_IndexFailure(t *testing.T) {
	svc, _, index, generator := newTestQueryService()
	index.queryErr = errors.New("chroma unreachable")

	_, err := svc.Answer(context.Background(), defaultRequest("q"))
	assert.ErrorIs(t, err, domain.ErrRetrievalFailed)
	assert.Zero(t, generator.callCount())
}

func TestAnswer_GenerateFailure(t *testing.T) {
	svc, _, index, generator := newTestQueryService()
	index.hits = []driven.VectorHit{hit("c1", "d1", "a", distPtr(0.1))}
	generator.genErr = errors.New("safety block")

	_, err := svc.Answer(context.Background(), defaultRequest("q"))
	assert.ErrorIs(t, err, domain.ErrGenerationFailed)
}

func TestAnswer_ParametersEchoed(t *testing.T) {
	svc, _, index, _ := newTestQueryService()
	index.hits = []driven.VectorHit{hit("c1", "d1", "a", distPtr(0.1))}

	req := domain.QueryRequest{Question: "q", TopK: 3, Temperature: 1.2, MaxTokens: 200}
	resp, err := svc.Answer(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Parameters.TopK)
	assert.InDelta(t, 1.2, resp.Parameters.Temperature, 1e-9)
	assert.Equal(t, 200, resp.Parameters.MaxTokens)
	assert.False(t, resp.Timestamp.IsZero())
}
