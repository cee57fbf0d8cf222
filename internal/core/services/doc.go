// Package services implements the driving ports: the document lifecycle
// operations, the ingestion pipeline, and the retrieval-augmented query
// pipeline. Services depend only on the driven port interfaces, never on
// concrete adapters.
package services
