package llm

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service wraps an LLM provider for dependency injection
type Service struct {
	provider LLMProvider
}

// NewService creates an LLM service from config
func NewService(cfg ProviderConfig) (*Service, error) {
	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("provider", provider.GetProviderName()).
		Str("model", cfg.Model).
		Msg("🤖 LLM provider ready")

	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates a service around an existing provider
func NewServiceWithProvider(provider LLMProvider) *Service {
	return &Service{provider: provider}
}

// GenerateResponse generates a chat completion
func (s *Service) GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	return s.provider.GenerateResponse(ctx, systemPrompt, userMessage)
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
