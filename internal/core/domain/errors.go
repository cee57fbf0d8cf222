package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. Callers discriminate
// with errors.Is; adapters map them to transport-specific codes.
var (
	// ErrInvalidParameter indicates malformed caller input.
	// No state has been mutated when this is returned.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnsupportedType indicates a document type the pipeline cannot
	// handle. Only plain text is supported.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNotFound indicates a requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrEmbeddingUnavailable indicates the embedding provider failed
	// (transport error or provider-side error).
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation provider returned
	// no usable text candidate.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrRetrievalFailed indicates the retrieval stage of a query failed.
	// The caller cannot distinguish query-embedding failure from index
	// failure; both surface as this error.
	ErrRetrievalFailed = errors.New("retrieval failed")

	// ErrGenerationFailed indicates the generation stage of a query
	// failed after retrieval succeeded.
	ErrGenerationFailed = errors.New("answer generation failed")

	// ErrStorageFailure indicates a registry or index persistence error.
	ErrStorageFailure = errors.New("storage failure")
)
