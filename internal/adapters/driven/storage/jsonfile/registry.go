// Package jsonfile provides a file-backed document registry. Document
// metadata lives in a single JSON file and each document's text lives
// next to it under a documents directory, so uploads survive restarts
// without a database server.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.DocumentRegistry = (*Registry)(nil)

// record is the persisted form of a document. The text is kept in a
// separate file, not in the JSON.
type record struct {
	ID        string    `json:"document_id"`
	Filename  string    `json:"filename"`
	FileType  string    `json:"file_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// Registry is a JSON-file implementation of driven.DocumentRegistry.
// The registry file holds an ordered array, so List returns documents
// in insertion order.
type Registry struct {
	mu           sync.Mutex
	registryPath string
	documentsDir string
	records      []record
}

// NewRegistry opens (or creates) a registry at registryPath, storing
// document text files under documentsDir.
func NewRegistry(registryPath, documentsDir string) (*Registry, error) {
	if err := os.MkdirAll(filepath.Dir(registryPath), 0700); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}
	if err := os.MkdirAll(documentsDir, 0700); err != nil {
		return nil, fmt.Errorf("creating documents directory: %w", err)
	}

	r := &Registry{
		registryPath: registryPath,
		documentsDir: documentsDir,
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads the registry file. A missing file means an empty registry.
func (r *Registry) load() error {
	data, err := os.ReadFile(r.registryPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading registry: %w", err)
	}

	if err := json.Unmarshal(data, &r.records); err != nil {
		return fmt.Errorf("parsing registry %s: %w", r.registryPath, err)
	}
	return nil
}

// save writes the registry file atomically (caller must hold the lock).
func (r *Registry) save() error {
	data, err := json.MarshalIndent(r.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding registry: %w", err)
	}

	tmp := r.registryPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing registry: %w", err)
	}
	if err := os.Rename(tmp, r.registryPath); err != nil {
		return fmt.Errorf("replacing registry: %w", err)
	}
	return nil
}

// textPath returns the path of a document's text file.
func (r *Registry) textPath(id string) string {
	return filepath.Join(r.documentsDir, id+".txt")
}

// Save stores or updates a document and persists immediately. New
// documents are appended; updates keep their position.
func (r *Registry) Save(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if doc.OriginalText != nil {
		if err := os.WriteFile(r.textPath(doc.ID), []byte(*doc.OriginalText), 0600); err != nil {
			return fmt.Errorf("writing document text: %w", err)
		}
	}

	rec := record{
		ID:        doc.ID,
		Filename:  doc.Filename,
		FileType:  string(doc.FileType),
		Status:    string(doc.Status),
		CreatedAt: doc.CreatedAt,
	}

	updated := false
	for i := range r.records {
		if r.records[i].ID == doc.ID {
			r.records[i] = rec
			updated = true
			break
		}
	}
	if !updated {
		r.records = append(r.records, rec)
	}

	return r.save()
}

// Get retrieves a document by id, loading its text from disk.
func (r *Registry) Get(_ context.Context, id string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.records {
		if rec.ID == id {
			doc := toDomain(rec)
			text, err := os.ReadFile(r.textPath(id))
			if err == nil {
				s := string(text)
				doc.OriginalText = &s
			} else if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading document text: %w", err)
			}
			return doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all documents in insertion order. Text files are not
// loaded; listings only need metadata.
func (r *Registry) List(_ context.Context) ([]domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	docs := make([]domain.Document, len(r.records))
	for i, rec := range r.records {
		docs[i] = *toDomain(rec)
	}
	return docs, nil
}

// Close releases resources.
func (r *Registry) Close() error {
	return nil
}

func toDomain(rec record) *domain.Document {
	return &domain.Document{
		ID:        rec.ID,
		Filename:  rec.Filename,
		FileType:  domain.FileType(rec.FileType),
		Status:    domain.Status(rec.Status),
		CreatedAt: rec.CreatedAt,
	}
}
