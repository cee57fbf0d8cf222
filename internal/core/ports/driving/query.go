package driving

import (
	"context"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

// QueryService answers natural-language questions with retrieval-
// augmented generation.
type QueryService interface {
	// Answer embeds the question, retrieves the nearest chunks, and
	// generates a grounded answer. With zero hits it returns the fixed
	// no-hit response without calling the generation provider.
	Answer(ctx context.Context, req domain.QueryRequest) (*domain.QueryResponse, error)
}
