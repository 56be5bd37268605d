package llm

import (
	"context"
	"fmt"
	"sync"

	"survey-gen/internal/config"
	"survey-gen/internal/domain"
	"survey-gen/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// ModelFactory builds a langchaingo model; NewModel in production.
type ModelFactory func(ctx context.Context, cfg config.LLMConfig) (llms.Model, error)

// Registry lazily builds one Generator per provider and reuses it.
type Registry struct {
	base       config.LLMConfig
	newModel   ModelFactory
	mu         sync.Mutex
	generators map[domain.Provider]*Generator
}

var _ domain.GeneratorFactory = (*Registry)(nil)

func NewRegistry(base config.LLMConfig, newModel ModelFactory) *Registry {
	if newModel == nil {
		newModel = NewModel
	}
	return &Registry{
		base:       base,
		newModel:   newModel,
		generators: make(map[domain.Provider]*Generator),
	}
}

// ForProvider returns the generator for provider. Switching away from the
// configured provider also switches to that provider's default model.
func (r *Registry) ForProvider(ctx context.Context, provider domain.Provider) (domain.TextGenerator, error) {
	cfg := r.base
	if provider != "" && string(provider) != cfg.Provider {
		cfg.Provider = string(provider)
		cfg.Model = config.DefaultModels[cfg.Provider]
	}
	key := domain.Provider(cfg.Provider)

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.generators[key]; ok {
		return g, nil
	}

	model, err := r.newModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init %s model: %w", cfg.Provider, err)
	}
	var tokens *TokenCounter
	if cfg.CountTokens {
		if tokens, err = NewTokenCounter(cfg.Model); err != nil {
			logTokenCounterFailure(cfg, err)
			tokens = nil
		}
	}
	g := NewGenerator(model, cfg, tokens)
	r.generators[key] = g
	return g, nil
}

func logTokenCounterFailure(cfg config.LLMConfig, err error) {
	logger.Get().Warn("Token counting disabled",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model),
		zap.Error(err))
}
