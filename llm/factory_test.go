package llm

import "testing"

func TestProviderForModel(t *testing.T) {
	tests := []struct {
		model string
		want  ProviderType
	}{
		{"gemini-2.0-flash", ProviderGemini},
		{"gemini-3-pro", ProviderGemini},
		{"gpt-4o", ProviderOpenAI},
		{"o3-mini", ProviderOpenAI},
		{"deepseek-chat", ProviderDeepSeek},
		{"claude-sonnet-4-20250514", ProviderAnthropic},
		{"", ProviderGemini},
		{"someday-model", ProviderGemini},
	}

	for _, tt := range tests {
		if got := ProviderForModel(tt.model); got != tt.want {
			t.Errorf("ProviderForModel(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestProviderTypeString(t *testing.T) {
	tests := map[ProviderType]string{
		ProviderGemini:    "gemini",
		ProviderOpenAI:    "openai",
		ProviderDeepSeek:  "deepseek",
		ProviderAnthropic: "anthropic",
	}
	for pt, want := range tests {
		if got := pt.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestNewBuildsEachProvider(t *testing.T) {
	for _, pt := range []ProviderType{ProviderGemini, ProviderOpenAI, ProviderDeepSeek, ProviderAnthropic} {
		provider, err := New(pt, "test-key", "some-model")
		if err != nil {
			t.Fatalf("unexpected error for %v: %v", pt, err)
		}
		if provider.Name() != pt.String() {
			t.Errorf("provider name %q does not match type %q", provider.Name(), pt)
		}
		if provider.Model() != "some-model" {
			t.Errorf("unexpected model %q", provider.Model())
		}
	}
}
