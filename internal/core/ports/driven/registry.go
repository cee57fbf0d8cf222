package driven

import (
	"context"

	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/domain"
)

// DocumentRegistry is the durable record of every uploaded document.
// It is the single source of truth for the metadata returned to clients.
//
// Implementations may be in-memory (tests), file-backed, or a database;
// writes follow a read-modify-write pattern over the whole collection,
// so the write itself must be atomic at the storage layer. Updates are
// idempotent overwrites: any status may follow any other, so retries are
// always possible.
type DocumentRegistry interface {
	// Save inserts or overwrites a document record.
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by id. Returns domain.ErrNotFound when
	// absent.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns all documents in insertion order.
	List(ctx context.Context) ([]domain.Document, error)

	// Close releases resources.
	Close() error
}
