package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

// queryBody is the wire form of a query request. Optional fields are
// pointers so an absent field falls back to its default rather than to
// the zero value.
type queryBody struct {
	Question    string   `json:"question"`
	TopK        *int     `json:"top_k"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
}

// parseQueryRequest decodes the JSON body and applies defaults.
func parseQueryRequest(r *http.Request) (domain.QueryRequest, error) {
	var body queryBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return domain.QueryRequest{}, fmt.Errorf("invalid request body: %w", err)
	}

	req := domain.QueryRequest{
		Question:    body.Question,
		TopK:        domain.DefaultTopK,
		Temperature: domain.DefaultTemperature,
		MaxTokens:   domain.DefaultMaxTokens,
	}
	if body.TopK != nil {
		req.TopK = *body.TopK
	}
	if body.Temperature != nil {
		req.Temperature = *body.Temperature
	}
	if body.MaxTokens != nil {
		req.MaxTokens = *body.MaxTokens
	}
	return req, nil
}

// parseVectorizeOptions reads chunk parameters from the query string.
func parseVectorizeOptions(r *http.Request) (driving.VectorizeOptions, error) {
	var opts driving.VectorizeOptions

	if v := r.URL.Query().Get("chunk_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid chunk_size %q", v)
		}
		opts.ChunkSize = n
	}
	if v := r.URL.Query().Get("chunk_overlap"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid chunk_overlap %q", v)
		}
		// An absent parameter keeps the nil default; an explicit zero
		// disables overlap.
		opts.ChunkOverlap = &n
	}
	return opts, nil
}

// parseListOptions reads paging and filter parameters from the query
// string.
func parseListOptions(r *http.Request) (driving.ListOptions, error) {
	var opts driving.ListOptions

	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.Status(v)
		opts.Status = &status
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid limit %q", v)
		}
		opts.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("invalid offset %q", v)
		}
		opts.Offset = n
	}
	return opts, nil
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes an error body in the {"detail": ...} shape.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
