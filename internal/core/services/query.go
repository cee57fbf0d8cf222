package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// NoHitAnswer is the fixed answer returned when retrieval finds no
// relevant chunks. No generation call is made in that case.
const NoHitAnswer = "関連ドキュメントが見つかりませんでした。"

// promptTemplate frames the retrieved context and the question for the
// generation model.
const promptTemplate = "以下のドキュメントに基づいて質問に答えてください。\n\n" +
	"【ドキュメント】\n%s\n\n" +
	"【質問】\n%s\n\n" +
	"【回答】"

// QueryService answers questions with retrieval-augmented generation.
type QueryService struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	generator driven.GenerationService
}

// NewQueryService creates a new query service.
func NewQueryService(
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	generator driven.GenerationService,
) *QueryService {
	return &QueryService{
		embedder:  embedder,
		index:     index,
		generator: generator,
	}
}

// Answer runs the RAG pipeline: embed the question, retrieve the nearest
// chunks, and generate a grounded answer.
//
// Embedding and index failures are both surfaced as ErrRetrievalFailed;
// generation failures as ErrGenerationFailed. Chunks are reported in the
// order the index returned them with similarity = 1 - distance, without
// clamping or re-sorting.
func (s *QueryService) Answer(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	queryID := uuid.New().String()
	logger.Section("Query " + queryID)
	logger.Debug("Question: %q top_k=%d", req.Question, req.TopK)

	embedding, err := s.embedder.Embed(ctx, req.Question, driven.IntentQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}

	hits, err := s.index.Query(ctx, embedding, req.TopK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRetrievalFailed, err)
	}
	logger.Debug("Retrieved %d chunks", len(hits))

	params := domain.GenerationParameters{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		TopK:        req.TopK,
	}

	if len(hits) == 0 {
		// The model name is reported for metadata consistency even
		// though no generation call is made.
		return &domain.QueryResponse{
			QueryID:         queryID,
			Question:        req.Question,
			Answer:          NoHitAnswer,
			RetrievedChunks: []domain.RetrievedChunk{},
			Model:           s.generator.ModelName(),
			Parameters:      params,
			Timestamp:       time.Now().UTC(),
		}, nil
	}

	prompt := buildPrompt(req.Question, hits)
	answer, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGenerationFailed, err)
	}

	return &domain.QueryResponse{
		QueryID:         queryID,
		Question:        req.Question,
		Answer:          answer,
		RetrievedChunks: scoreHits(hits),
		Model:           s.generator.ModelName(),
		Parameters:      params,
		Timestamp:       time.Now().UTC(),
	}, nil
}

// buildPrompt concatenates the retrieved chunk texts, separated by blank
// lines, into the prompt template.
func buildPrompt(question string, hits []driven.VectorHit) string {
	contents := make([]string, len(hits))
	for i, hit := range hits {
		contents[i] = hit.Content
	}
	return fmt.Sprintf(promptTemplate, strings.Join(contents, "\n\n"), question)
}

// scoreHits converts index hits to scored chunks, keeping the index
// order. A missing distance yields score 0.0.
func scoreHits(hits []driven.VectorHit) []domain.RetrievedChunk {
	chunks := make([]domain.RetrievedChunk, len(hits))
	for i, hit := range hits {
		score := 0.0
		if hit.Distance != nil {
			score = 1.0 - *hit.Distance
		}

		var docID *string
		if id, ok := hit.Metadata[driven.MetaDocumentID].(string); ok && id != "" {
			docID = &id
		}

		chunks[i] = domain.RetrievedChunk{
			ChunkID:         hit.ChunkID,
			DocumentID:      docID,
			Content:         hit.Content,
			SimilarityScore: score,
		}
	}
	return chunks
}
