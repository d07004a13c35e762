package llm

import (
	"context"
	"fmt"
)

// LLMProvider is a chat-completion backend
type LLMProvider interface {
	GenerateResponse(ctx context.Context, systemPrompt, userMessage string) (string, error)
	GetProviderName() string
}

// ProviderType selects the backend in NewProvider
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
)

// ProviderConfig describes how to reach an LLM backend
type ProviderConfig struct {
	Type    ProviderType
	APIKey  string
	BaseURL string // optional, for proxies and tests

	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider creates the configured LLM provider
func NewProvider(cfg ProviderConfig) (LLMProvider, error) {
	switch cfg.Type {
	case ProviderOpenAI, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}
