package driven

import "context"

// GenerateOptions configures a single generation call.
type GenerateOptions struct {
	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int
}

// GenerationService produces answer text from a prompt.
//
// Implementations wrap a provider returning no usable text candidate in
// domain.ErrGenerationUnavailable. Calls are single blocking requests
// bounded by the client timeout; they are never silently retried.
type GenerationService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the provider is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
