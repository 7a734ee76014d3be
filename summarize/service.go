package summarize

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sheetwise/summarizer/config"
	"github.com/sheetwise/summarizer/llm"
	"github.com/sheetwise/summarizer/storage"
)

// ProviderFactory builds a provider for one credential. Injectable so
// tests can count and fake generation calls.
type ProviderFactory func(providerType llm.ProviderType, apiKey, model string) (llm.Provider, error)

// Service performs summarization with multi-credential failover.
type Service struct {
	creds       config.CredentialSet
	history     *storage.HistoryStore // optional, nil disables recording
	log         zerolog.Logger
	newProvider ProviderFactory
}

// NewService creates a summarization service over the loaded credential
// set. history may be nil.
func NewService(creds config.CredentialSet, history *storage.HistoryStore, logger zerolog.Logger) *Service {
	return &Service{
		creds:       creds,
		history:     history,
		log:         logger,
		newProvider: llm.New,
	}
}

// WithProviderFactory overrides provider construction.
func (s *Service) WithProviderFactory(factory ProviderFactory) *Service {
	s.newProvider = factory
	return s
}

// Summarize validates the request and iterates the configured credentials
// until one produces a summary. Validation failures are client errors;
// provider failures are logged per credential and surface only as
// ErrExhausted once every key has been tried.
func (s *Service) Summarize(ctx context.Context, req Request) (string, error) {
	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return "", err
	}

	providerType := llm.ProviderForModel(req.Model)
	credentials := s.creds.For(providerType.String())
	prompt := req.Prompt()
	params := req.Params()

	attempts := make([]Attempt, 0, len(credentials))
	for _, cred := range credentials {
		apiKey := cred.APIKey
		attempts = append(attempts, func(ctx context.Context) (string, error) {
			provider, err := s.newProvider(providerType, apiKey, req.Model)
			if err != nil {
				return "", fmt.Errorf("build provider: %w", err)
			}
			return provider.Generate(ctx, prompt, params)
		})
	}

	text, index, err := FirstSuccess(ctx, attempts, func(i int, attemptErr error) {
		s.log.Error().
			Err(attemptErr).
			Int("credential", i).
			Str("provider", providerType.String()).
			Msg("generation failed, advancing to next credential")
	})
	if err != nil {
		return "", err
	}

	s.log.Info().
		Int("credential", index).
		Str("provider", providerType.String()).
		Str("model", req.Model).
		Msg("summarization successful")

	s.record(ctx, req, providerType, text)
	return text, nil
}

// record persists one successful summarization; best-effort.
func (s *Service) record(ctx context.Context, req Request, providerType llm.ProviderType, summary string) {
	if s.history == nil {
		return
	}
	err := s.history.Record(ctx, storage.SummaryRecord{
		Model:        req.Model,
		Provider:     providerType.String(),
		RequestChars: len(req.Text),
		SummaryChars: len(summary),
	})
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to record summary history")
	}
}
