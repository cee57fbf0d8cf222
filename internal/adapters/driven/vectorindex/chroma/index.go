// Package chroma provides a vector index adapter backed by a Chroma
// server's REST API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "http://localhost:8001"
	DefaultCollection = "documents"
	DefaultTimeout    = 30 * time.Second
)

// Config holds configuration for the Chroma index.
type Config struct {
	// BaseURL is the Chroma server URL (default: http://localhost:8001).
	BaseURL string

	// Collection is the collection name (default: documents).
	Collection string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Index stores and queries chunk vectors in a Chroma collection. The
// collection is created on first use if it does not exist.
type Index struct {
	client     *http.Client
	baseURL    string
	collection string

	mu           sync.Mutex
	collectionID string
}

type collectionRequest struct {
	Name        string `json:"name"`
	GetOrCreate bool   `json:"get_or_create"`
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type addRequest struct {
	IDs        []string         `json:"ids"`
	Embeddings [][]float32      `json:"embeddings"`
	Documents  []string         `json:"documents"`
	Metadatas  []map[string]any `json:"metadatas"`
}

type queryRequest struct {
	QueryEmbeddings [][]float32 `json:"query_embeddings"`
	NResults        int         `json:"n_results"`
	Include         []string    `json:"include"`
}

type queryResponse struct {
	IDs       [][]string         `json:"ids"`
	Documents [][]string         `json:"documents"`
	Metadatas [][]map[string]any `json:"metadatas"`
	Distances [][]float64        `json:"distances"`
}

type getRequest struct {
	Include []string `json:"include"`
}

type getResponse struct {
	IDs       []string         `json:"ids"`
	Metadatas []map[string]any `json:"metadatas"`
}

type deleteRequest struct {
	Where map[string]any `json:"where"`
}

// NewIndex creates a new Chroma-backed vector index.
func NewIndex(cfg Config) *Index {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		collection: cfg.Collection,
	}
}

// ensureCollection resolves the collection id, creating the collection
// on the server if needed. The id is cached after the first call.
func (x *Index) ensureCollection(ctx context.Context) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.collectionID != "" {
		return x.collectionID, nil
	}

	var resp collectionResponse
	err := x.post(ctx, "/api/v1/collections", collectionRequest{
		Name:        x.collection,
		GetOrCreate: true,
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("chroma: ensuring collection %q: %w", x.collection, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("chroma: server returned no collection id for %q", x.collection)
	}

	logger.Debug("Using Chroma collection %s (%s)", x.collection, resp.ID)
	x.collectionID = resp.ID
	return resp.ID, nil
}

// AddBatch writes vector records in a single call.
func (x *Index) AddBatch(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	id, err := x.ensureCollection(ctx)
	if err != nil {
		return err
	}

	req := addRequest{
		IDs:        make([]string, len(records)),
		Embeddings: make([][]float32, len(records)),
		Documents:  make([]string, len(records)),
		Metadatas:  make([]map[string]any, len(records)),
	}
	for i, rec := range records {
		req.IDs[i] = rec.ID
		req.Embeddings[i] = rec.Embedding
		req.Documents[i] = rec.Content
		req.Metadatas[i] = rec.Metadata
	}

	if err := x.post(ctx, "/api/v1/collections/"+id+"/add", req, nil); err != nil {
		return fmt.Errorf("chroma: adding %d records: %w", len(records), err)
	}
	return nil
}

// Query returns up to topK nearest neighbours with their distances.
func (x *Index) Query(ctx context.Context, embedding []float32, topK int) ([]driven.VectorHit, error) {
	id, err := x.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	var resp queryResponse
	err = x.post(ctx, "/api/v1/collections/"+id+"/query", queryRequest{
		QueryEmbeddings: [][]float32{embedding},
		NResults:        topK,
		Include:         []string{"documents", "metadatas", "distances"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chroma: query: %w", err)
	}

	if len(resp.IDs) == 0 {
		return nil, nil
	}

	ids := resp.IDs[0]
	hits := make([]driven.VectorHit, len(ids))
	for i := range ids {
		hit := driven.VectorHit{ChunkID: ids[i]}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			hit.Content = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			hit.Metadata = resp.Metadatas[0][i]
		}
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			d := resp.Distances[0][i]
			hit.Distance = &d
		}
		hits[i] = hit
	}
	return hits, nil
}

// ListMetadata returns the metadata of every stored vector.
func (x *Index) ListMetadata(ctx context.Context) ([]map[string]any, error) {
	id, err := x.ensureCollection(ctx)
	if err != nil {
		return nil, err
	}

	var resp getResponse
	err = x.post(ctx, "/api/v1/collections/"+id+"/get", getRequest{
		Include: []string{"metadatas"},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("chroma: listing metadata: %w", err)
	}
	return resp.Metadatas, nil
}

// DeleteByDocument removes all vectors belonging to a document.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	id, err := x.ensureCollection(ctx)
	if err != nil {
		return err
	}

	err = x.post(ctx, "/api/v1/collections/"+id+"/delete", deleteRequest{
		Where: map[string]any{driven.MetaDocumentID: documentID},
	}, nil)
	if err != nil {
		return fmt.Errorf("chroma: deleting vectors for document %s: %w", documentID, err)
	}
	return nil
}

// post sends a JSON request and decodes the JSON response into out when
// out is non-nil.
func (x *Index) post(ctx context.Context, path string, payload, out any) error {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
