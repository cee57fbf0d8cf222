// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the embedding and generation gateways,
// the vector index, and the document registry.
package driven
