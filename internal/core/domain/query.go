package domain

import (
	"fmt"
	"strings"
	"time"
)

// Query parameter bounds and defaults. These mirror the public API
// contract: top_k 5 [1-20], temperature 0.7 [0.0-2.0], max_tokens 500 [>=1].
const (
	DefaultTopK        = 5
	MinTopK            = 1
	MaxTopK            = 20
	DefaultTemperature = 0.7
	MinTemperature     = 0.0
	MaxTemperature     = 2.0
	DefaultMaxTokens   = 500
)

// QueryRequest is a RAG question with its retrieval and generation
// parameters.
type QueryRequest struct {
	// Question is the user's question. Must be non-empty.
	Question string

	// TopK is the number of nearest chunks to retrieve.
	TopK int

	// Temperature controls generation randomness.
	Temperature float64

	// MaxTokens bounds the generated answer length.
	MaxTokens int
}

// Validate checks the request against the documented bounds.
// Returns ErrInvalidParameter on any violation.
func (r QueryRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return fmt.Errorf("%w: question is empty", ErrInvalidParameter)
	}
	if r.TopK < MinTopK || r.TopK > MaxTopK {
		return fmt.Errorf("%w: top_k must be in [%d, %d], got %d",
			ErrInvalidParameter, MinTopK, MaxTopK, r.TopK)
	}
	if r.Temperature < MinTemperature || r.Temperature > MaxTemperature {
		return fmt.Errorf("%w: temperature must be in [%.1f, %.1f], got %g",
			ErrInvalidParameter, MinTemperature, MaxTemperature, r.Temperature)
	}
	if r.MaxTokens < 1 {
		return fmt.Errorf("%w: max_tokens must be >= 1, got %d",
			ErrInvalidParameter, r.MaxTokens)
	}
	return nil
}

// GenerationParameters records the effective parameters used for a query.
type GenerationParameters struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
	TopK        int     `json:"top_k"`
}

// RetrievedChunk is a chunk used as grounding evidence for an answer.
type RetrievedChunk struct {
	// ChunkID is the unique id of the retrieved chunk.
	ChunkID string `json:"chunk_id"`

	// DocumentID is the owning document id. Nil when the index record
	// carries no document metadata.
	DocumentID *string `json:"document_id"`

	// Content is the chunk text.
	Content string `json:"content"`

	// SimilarityScore is 1 - distance as reported by the vector index.
	// Not clamped: values outside [0, 1] are possible when the distance
	// metric is unbounded.
	SimilarityScore float64 `json:"similarity_score"`
}

// QueryResponse is the assembled answer to a QueryRequest.
//
// Invariant: RetrievedChunks is empty exactly when Answer is the fixed
// no-hit message and no generation call was made.
type QueryResponse struct {
	// QueryID uniquely identifies this request.
	QueryID string `json:"query_id"`

	// Question echoes the input question.
	Question string `json:"question"`

	// Answer is the generated answer text, or the fixed no-hit message.
	Answer string `json:"answer"`

	// RetrievedChunks lists the grounding chunks in the order returned
	// by the vector index. No re-sorting is applied.
	RetrievedChunks []RetrievedChunk `json:"retrieved_chunks"`

	// Model is the generation model identifier.
	Model string `json:"model"`

	// Parameters are the effective generation parameters.
	Parameters GenerationParameters `json:"parameters"`

	// Timestamp is when the response was assembled (UTC).
	Timestamp time.Time `json:"timestamp"`
}
