// Package driving provides interfaces for external actors
// (primary/inbound ports): the document lifecycle operations and the
// RAG query operation consumed by the HTTP API, CLI, TUI and MCP
// adapters.
package driving
