// LLM Provider Factory - maps requested model names to provider
// implementations and constructs providers from single API keys.
package llm

import (
	"fmt"
	"strings"
)

// ProviderType represents supported LLM providers.
type ProviderType int

const (
	// ProviderGemini is the Google Gemini provider (the default).
	ProviderGemini ProviderType = iota
	// ProviderOpenAI is the OpenAI provider (GPT models).
	ProviderOpenAI
	// ProviderDeepSeek is the DeepSeek provider.
	ProviderDeepSeek
	// ProviderAnthropic is the Anthropic provider (Claude models).
	ProviderAnthropic
)

// DefaultModel is used when a request names no model.
const DefaultModel = "gemini-2.0-flash"

// String returns the string representation of the provider type.
func (p ProviderType) String() string {
	switch p {
	case ProviderGemini:
		return "gemini"
	case ProviderOpenAI:
		return "openai"
	case ProviderDeepSeek:
		return "deepseek"
	case ProviderAnthropic:
		return "anthropic"
	default:
		return "unknown"
	}
}

// ProviderForModel picks the provider responsible for a model name.
// Unrecognized names fall back to Gemini, the service's primary provider.
func ProviderForModel(model string) ProviderType {
	name := strings.ToLower(model)
	switch {
	case strings.HasPrefix(name, "gpt-"), strings.HasPrefix(name, "o1"), strings.HasPrefix(name, "o3"):
		return ProviderOpenAI
	case strings.HasPrefix(name, "deepseek"):
		return ProviderDeepSeek
	case strings.HasPrefix(name, "claude"):
		return ProviderAnthropic
	default:
		return ProviderGemini
	}
}

// New constructs a provider of the given type for one API key and model.
func New(providerType ProviderType, apiKey, model string) (Provider, error) {
	switch providerType {
	case ProviderGemini:
		return NewGeminiProvider(apiKey, model), nil
	case ProviderOpenAI:
		return NewOpenAIProvider(apiKey, model), nil
	case ProviderDeepSeek:
		return NewDeepSeekProvider(apiKey, model), nil
	case ProviderAnthropic:
		return NewAnthropicProvider(apiKey, model), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %v", providerType)
	}
}
