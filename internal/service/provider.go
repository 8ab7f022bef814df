package service

import (
	"context"
	"fmt"

	"transcript-extractor/internal/models"
	"transcript-extractor/pkg/config"

	"go.uber.org/zap"
)

// FactProvider is the completion-provider boundary: a prompt goes in, typed
// facts come out. Implementations must honour ctx cancellation.
type FactProvider interface {
	ExtractFacts(ctx context.Context, prompt string) (*models.FinancialFacts, error)
	Name() string
}

// NewFactProvider builds the provider selected by cfg.Provider. Callers close
// the result when it implements io.Closer.
func NewFactProvider(ctx context.Context, cfg *config.LLMConfig, logger *zap.Logger) (FactProvider, error) {
	switch cfg.Provider {
	case config.ProviderGigaChat:
		return NewGigaChatProvider(ctx, &cfg.GigaChat, logger)
	case config.ProviderGemini:
		return NewGeminiProvider(ctx, &cfg.Gemini, logger)
	case config.ProviderStub:
		logger.Warn("Using keyword stub provider, extraction quality is limited")
		return NewStubProvider(), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrConfigurationMissing, cfg.Provider)
	}
}
