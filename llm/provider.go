// Package llm provides LLM provider abstractions for text generation.
//
// Each provider implementation hides:
// - API client initialization and authentication
// - Request/response format conversion
// - Provider-specific error handling
package llm

import (
	"context"
)

// GenerationParams carries the sampling parameters of one generation call.
type GenerationParams struct {
	Temperature float32
	TopP        float32
	TopK        int32
}

// Provider defines the abstract interface for LLM providers.
// Implementations hide provider-specific details while exposing a
// consistent single-shot generation interface.
type Provider interface {
	// Name returns the provider name (for logging/debugging).
	Name() string

	// Model returns the current model being used.
	Model() string

	// Generate sends one prompt and returns the generated text.
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}
