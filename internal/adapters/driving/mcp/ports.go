package mcp

import (
	"github.com/swdevsmz/spec-diven-rag-poc/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point.
type Ports struct {
	// Query answers questions over the indexed documents.
	Query driving.QueryService

	// Document manages the document registry.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	// Document is optional; the list tool is skipped without it
	return nil
}
