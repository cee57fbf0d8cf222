// Package mcp provides an MCP (Model Context Protocol) server adapter
// for the document pipeline. It lets AI assistants query the indexed
// documents and inspect the registry.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
