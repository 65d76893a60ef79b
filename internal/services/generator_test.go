package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamechat/internal/config"
	"gamechat/internal/models"
)

type fakeProvider struct {
	calls  int
	apiKey string
	req    GenerationRequest
	result Result
	err    error
}

func (f *fakeProvider) Generate(_ context.Context, apiKey string, req GenerationRequest) (Result, error) {
	f.calls++
	f.apiKey = apiKey
	f.req = req
	return f.result, f.err
}

type recordedGeneration struct {
	outcome string
}

type fakeMetrics struct {
	generations []recordedGeneration
}

func (m *fakeMetrics) ObserveRequest(string, float64) {}
func (m *fakeMetrics) ObserveGeneration(outcome string, _ float64) {
	m.generations = append(m.generations, recordedGeneration{outcome: outcome})
}

func newTestGenerator(cfg *config.Config, p Provider) (*Generator, *bytes.Buffer, *fakeMetrics) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	m := &fakeMetrics{}
	return NewGenerator(cfg, p, logger, m), &logs, m
}

func TestGenerate_SendsOnlyLatestMessage(t *testing.T) {
	p := &fakeProvider{result: TextResult("Civilization VI is a strong pick.")}
	g, _, m := newTestGenerator(&config.Config{GeminiAPIKey: "cfg-key"}, p)

	history := []models.HistoryEntry{
		{Sender: "Usuario", Text: "Hi"},
		{Sender: "Bot", Text: "Hello! Ask me about games."},
	}
	got, err := g.Generate(context.Background(), "What is the best strategy game of 2023?", history)

	require.NoError(t, err)
	assert.Equal(t, "Civilization VI is a strong pick.", got)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, "cfg-key", p.apiKey)
	assert.Equal(t, "What is the best strategy game of 2023?", p.req.Prompt)
	assert.Empty(t, p.req.History)
	assert.Equal(t, config.DefaultGeminiModel, p.req.Model)
	assert.Equal(t, SystemInstruction, p.req.SystemInstruction)
	assert.Equal(t, []recordedGeneration{{outcome: "success"}}, m.generations)
}

func TestGenerate_SafetySettings(t *testing.T) {
	p := &fakeProvider{result: TextResult("ok")}
	g, _, _ := newTestGenerator(&config.Config{GeminiAPIKey: "k"}, p)

	_, err := g.Generate(context.Background(), "hi", nil)
	require.NoError(t, err)

	require.Len(t, p.req.SafetySettings, 1)
	assert.Equal(t, genai.HarmCategoryDangerousContent, p.req.SafetySettings[0].Category)
	assert.Equal(t, genai.HarmBlockNone, p.req.SafetySettings[0].Threshold)
}

func TestGenerate_MultiTurnSendsHistory(t *testing.T) {
	p := &fakeProvider{result: TextResult("ok")}
	g, _, _ := newTestGenerator(&config.Config{GeminiAPIKey: "k", GeminiMultiTurn: true}, p)

	history := []models.HistoryEntry{
		{Sender: "Usuario", Text: "Best RPG?"},
		{Sender: "Asistente", Text: "Elden Ring."},
	}
	_, err := g.Generate(context.Background(), "Why?", history)
	require.NoError(t, err)

	assert.Equal(t, "Why?", p.req.Prompt)
	assert.Equal(t, []models.ProviderMessage{
		{Role: models.RoleUser, Parts: []string{"Best RPG?"}},
		{Role: models.RoleModel, Parts: []string{"Elden Ring."}},
	}, p.req.History)
}

func TestGenerate_ExplicitKeyAndModelWin(t *testing.T) {
	p := &fakeProvider{result: TextResult("ok")}
	g, _, _ := newTestGenerator(&config.Config{GeminiAPIKey: "cfg-key", GeminiModel: "gemini-pro"}, p)

	_, err := g.Generate(context.Background(), "hi", nil, WithAPIKey("explicit"), WithModel("gemini-2.0-flash"))
	require.NoError(t, err)

	assert.Equal(t, "explicit", p.apiKey)
	assert.Equal(t, "gemini-2.0-flash", p.req.Model)
}

func TestGenerate_EmptyExplicitKeyFallsBackToConfig(t *testing.T) {
	p := &fakeProvider{result: TextResult("ok")}
	g, _, _ := newTestGenerator(&config.Config{GeminiAPIKey: "cfg-key"}, p)

	_, err := g.Generate(context.Background(), "hi", nil, WithAPIKey(""))
	require.NoError(t, err)
	assert.Equal(t, "cfg-key", p.apiKey)
}

func TestGenerate_MissingCredentialBeforeProviderCall(t *testing.T) {
	p := &fakeProvider{result: TextResult("should not happen")}
	g, logs, m := newTestGenerator(&config.Config{}, p)

	_, err := g.Generate(context.Background(), "hi", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingCredential))
	assert.Equal(t, 0, p.calls)
	assert.Contains(t, logs.String(), "GEMINI_API_KEY")
	assert.Equal(t, []recordedGeneration{{outcome: "missing_credential"}}, m.generations)
}

func TestGenerate_ProviderErrorIsTranslated(t *testing.T) {
	p := &fakeProvider{err: errors.New("googleapi: Error 429: quota exceeded for project 1234")}
	g, logs, m := newTestGenerator(&config.Config{GeminiAPIKey: "secret-key-value"}, p)

	_, err := g.Generate(context.Background(), "hi", nil)

	require.Error(t, err)
	assert.Equal(t, ErrGenerationFailure, err)
	assert.NotContains(t, err.Error(), "quota")
	assert.Contains(t, logs.String(), "quota exceeded")
	assert.NotContains(t, logs.String(), "secret-key-value")
	assert.Equal(t, []recordedGeneration{{outcome: "failure"}}, m.generations)
}

func TestGenerate_OpaqueResultIsStringified(t *testing.T) {
	p := &fakeProvider{result: OpaqueResult{Value: map[string]string{"finish_reason": "OTHER"}}}
	g, _, _ := newTestGenerator(&config.Config{GeminiAPIKey: "k"}, p)

	got, err := g.Generate(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"finish_reason":"OTHER"}`, got)
}
