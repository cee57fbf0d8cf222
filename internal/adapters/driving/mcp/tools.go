package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question    string   `json:"question" jsonschema:"the question to answer from the indexed documents"`
	TopK        *int     `json:"top_k,omitempty" jsonschema:"number of chunks to retrieve, 1 to 20 (default 5)"`
	Temperature *float64 `json:"temperature,omitempty" jsonschema:"generation temperature, 0.0 to 2.0 (default 0.7)"`
	MaxTokens   *int     `json:"max_tokens,omitempty" jsonschema:"maximum answer length in tokens (default 500)"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer string        `json:"answer"`
	Chunks []ChunkOutput `json:"retrieved_chunks"`
	Model  string        `json:"model"`
}

// ChunkOutput represents a single retrieved chunk.
type ChunkOutput struct {
	ChunkID         string  `json:"chunk_id"`
	DocumentID      string  `json:"document_id,omitempty"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter by status: pending, processed or error"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of documents to return (default 50)"`
}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Total     int              `json:"total"`
}

// DocumentOutput represents a single registered document.
type DocumentOutput struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Status     string `json:"status"`
	ChunkCount int    `json:"chunk_count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using retrieval-augmented generation over the indexed documents",
	}, s.handleQuery)

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List registered documents with their processing status",
		}, s.handleListDocuments)
	}
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	req := domain.QueryRequest{
		Question:    input.Question,
		TopK:        domain.DefaultTopK,
		Temperature: domain.DefaultTemperature,
		MaxTokens:   domain.DefaultMaxTokens,
	}
	if input.TopK != nil {
		req.TopK = *input.TopK
	}
	if input.Temperature != nil {
		req.Temperature = *input.Temperature
	}
	if input.MaxTokens != nil {
		req.MaxTokens = *input.MaxTokens
	}

	resp, err := s.ports.Query.Answer(ctx, req)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		Answer: resp.Answer,
		Chunks: make([]ChunkOutput, len(resp.RetrievedChunks)),
		Model:  resp.Model,
	}
	for i, chunk := range resp.RetrievedChunks {
		out := ChunkOutput{
			ChunkID:         chunk.ChunkID,
			Content:         chunk.Content,
			SimilarityScore: chunk.SimilarityScore,
		}
		if chunk.DocumentID != nil {
			out.DocumentID = *chunk.DocumentID
		}
		output.Chunks[i] = out
	}

	return nil, output, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	opts := driving.ListOptions{Limit: input.Limit}
	if input.Status != "" {
		status := domain.Status(input.Status)
		opts.Status = &status
	}

	page, err := s.ports.Document.List(ctx, opts)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(page.Documents)),
		Total:     page.Total,
	}
	for i, entry := range page.Documents {
		output.Documents[i] = DocumentOutput{
			DocumentID: entry.ID,
			Filename:   entry.Filename,
			Status:     string(entry.Status),
			ChunkCount: entry.ChunkCount,
		}
	}

	return nil, output, nil
}
