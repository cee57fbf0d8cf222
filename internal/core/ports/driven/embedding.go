package driven

import "context"

// EmbeddingIntent hints the provider whether the text is a search query
// or reference content, so it can optimize for asymmetric retrieval.
type EmbeddingIntent string

// Intent tags in the provider's wire vocabulary.
const (
	IntentQuery    EmbeddingIntent = "RETRIEVAL_QUERY"
	IntentDocument EmbeddingIntent = "RETRIEVAL_DOCUMENT"
)

// EmbeddingService converts text into a fixed-length vector.
//
// Implementations must retry once without the intent tag when the
// provider rejects it, and wrap any transport or provider failure in
// domain.ErrEmbeddingUnavailable.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string, intent EmbeddingIntent) ([]float32, error)

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
