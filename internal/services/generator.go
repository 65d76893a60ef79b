package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gamechat/internal/config"
	"gamechat/internal/metrics"
	"gamechat/internal/models"
)

// Generator turns a chat message into assistant text.
type Generator struct {
	provider  Provider
	apiKey    string
	model     string
	multiTurn bool
	logger    *slog.Logger
	metrics   metrics.ChatMetrics
}

type callOptions struct {
	apiKey string
	model  string
}

// Option overrides per-call settings.
type Option func(*callOptions)

// WithAPIKey takes precedence over the configured key. An empty key is ignored.
func WithAPIKey(key string) Option {
	return func(o *callOptions) { o.apiKey = key }
}

func WithModel(name string) Option {
	return func(o *callOptions) { o.model = name }
}

func NewGenerator(cfg *config.Config, provider Provider, logger *slog.Logger, m metrics.ChatMetrics) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.Noop{}
	}
	model := cfg.GeminiModel
	if model == "" {
		model = config.DefaultGeminiModel
	}
	return &Generator{
		provider:  provider,
		apiKey:    cfg.GeminiAPIKey,
		model:     model,
		multiTurn: cfg.GeminiMultiTurn,
		logger:    logger.With("component", "generator"),
		metrics:   m,
	}
}

// Generate sends message to Gemini and returns the reply text.
//
// Only the latest message is submitted unless multi-turn is enabled, in
// which case prior turns go along as chat history. Errors are
// ErrMissingCredential or ErrGenerationFailure and never carry provider
// detail; the full cause is logged here.
func (g *Generator) Generate(ctx context.Context, message string, history []models.HistoryEntry, opts ...Option) (string, error) {
	o := callOptions{model: g.model}
	for _, opt := range opts {
		opt(&o)
	}

	key := strings.TrimSpace(o.apiKey)
	if key == "" {
		key = strings.TrimSpace(g.apiKey)
	}
	if key == "" {
		g.logger.Error("API key not found, check GEMINI_API_KEY")
		g.metrics.ObserveGeneration(metrics.OutcomeMissingCredential, 0)
		return "", ErrMissingCredential.With("GEMINI_API_KEY not set")
	}

	messages := BuildMessages(message, history)
	last := len(messages) - 1

	req := GenerationRequest{
		Model:             o.model,
		SystemInstruction: SystemInstruction,
		Prompt:            messages[last].Parts[0],
		SafetySettings:    defaultSafetySettings(),
	}
	if g.multiTurn {
		req.History = messages[:last]
	}

	start := time.Now()
	result, err := g.provider.Generate(ctx, key, req)
	elapsed := time.Since(start)
	if err != nil {
		g.metrics.ObserveGeneration(metrics.OutcomeFailure, elapsed.Seconds())
		g.logger.Error("error generating response from Gemini",
			"model", o.model,
			"history_len", len(history),
			"duration", elapsed,
			"error", err,
		)
		return "", ErrGenerationFailure
	}

	g.metrics.ObserveGeneration(metrics.OutcomeSuccess, elapsed.Seconds())
	if _, ok := result.(OpaqueResult); ok {
		g.logger.Warn("Gemini returned no text, falling back to raw response", "model", o.model)
	}
	return ExtractText(result), nil
}
