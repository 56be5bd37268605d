package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"survey-gen/internal/config"
	"survey-gen/internal/domain"
	"survey-gen/internal/logger"
	"survey-gen/internal/metrics"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"
)

// Generator sends single prompts to a langchaingo model.
type Generator struct {
	model       llms.Model
	name        string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	tokens      *TokenCounter
}

var _ domain.TextGenerator = (*Generator)(nil)

// NewGenerator wraps model. tokens may be nil to skip token estimation.
func NewGenerator(model llms.Model, cfg config.LLMConfig, tokens *TokenCounter) *Generator {
	return &Generator{
		model:       model,
		name:        cfg.Provider + "/" + cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		tokens:      tokens,
	}
}

func (g *Generator) Name() string {
	return g.name
}

// Generate returns the raw completion for prompt.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	l := logger.Get()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if g.maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(g.maxTokens))
	}

	promptTokens := g.tokens.Count(prompt)
	l.Debug("Sending prompt to LLM",
		zap.String("backend", g.name),
		zap.Int("prompt_chars", len(prompt)),
		zap.Int("prompt_tokens", promptTokens))

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, opts...)
	metrics.LLMRequestDuration.WithLabelValues(g.name).Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.LLMRequests.WithLabelValues(g.name, "timeout").Inc()
			l.Error("LLM request timed out", zap.String("backend", g.name), zap.Error(err))
			return "", fmt.Errorf("LLM request timed out: %w", err)
		}
		metrics.LLMRequests.WithLabelValues(g.name, "error").Inc()
		l.Error("Failed to get response from LLM", zap.String("backend", g.name), zap.Error(err))
		return "", fmt.Errorf("LLM call failed: %w", err)
	}
	metrics.LLMRequests.WithLabelValues(g.name, "success").Inc()

	if g.tokens != nil {
		responseTokens := g.tokens.Count(response)
		metrics.LLMTokens.WithLabelValues(g.name, "prompt").Add(float64(promptTokens))
		metrics.LLMTokens.WithLabelValues(g.name, "response").Add(float64(responseTokens))
		l.Debug("LLM token usage",
			zap.String("backend", g.name),
			zap.Int("prompt_tokens", promptTokens),
			zap.Int("response_tokens", responseTokens))
	}

	l.Debug("Raw LLM response received",
		zap.String("backend", g.name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("response_chars", len(response)))
	return response, nil
}
