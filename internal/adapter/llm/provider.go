package llm

import (
	"context"
	"fmt"

	"survey-gen/internal/config"
	"survey-gen/internal/domain"
	"survey-gen/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// NewModel builds the langchaingo client for the configured provider.
func NewModel(ctx context.Context, cfg config.LLMConfig) (llms.Model, error) {
	logger.Get().Info("Initializing LLM client",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))

	switch domain.Provider(cfg.Provider) {
	case domain.ProviderOllama:
		return ollama.New(
			ollama.WithServerURL(cfg.ServerURL),
			ollama.WithModel(cfg.Model),
		)
	case domain.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key cannot be empty")
		}
		return openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.Model),
		)
	case domain.ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key cannot be empty")
		}
		return anthropic.New(
			anthropic.WithToken(cfg.AnthropicAPIKey),
			anthropic.WithModel(cfg.Model),
		)
	case domain.ProviderGemini:
		if cfg.GoogleAPIKey == "" {
			return nil, fmt.Errorf("Google API key cannot be empty")
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.GoogleAPIKey),
			googleai.WithDefaultModel(cfg.Model),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %q", cfg.Provider)
	}
}
