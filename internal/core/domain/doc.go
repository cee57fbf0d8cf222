// Package domain contains the core entities and business rules for the
// RAG document pipeline: documents and their lifecycle, chunks, query
// requests/responses, and the closed error taxonomy.
//
// The domain has no dependencies on adapters or infrastructure.
package domain
