package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"gamechat/internal/models"
)

// GenerationRequest is everything a provider needs for one call.
type GenerationRequest struct {
	Model             string
	SystemInstruction string
	Prompt            string
	// History is only set when multi-turn context is enabled.
	History        []models.ProviderMessage
	SafetySettings []*genai.SafetySetting
}

// Provider issues a single generation call authenticated with apiKey.
type Provider interface {
	Generate(ctx context.Context, apiKey string, req GenerationRequest) (Result, error)
}

// defaultSafetySettings relaxes only the dangerous content category.
func defaultSafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategoryDangerousContent,
			Threshold: genai.HarmBlockNone,
		},
	}
}

// GeminiProvider calls the Gemini API through the genai SDK. A client is
// configured per call so the key can differ between calls.
type GeminiProvider struct {
	clientOpts []option.ClientOption
}

func NewGeminiProvider(opts ...option.ClientOption) *GeminiProvider {
	return &GeminiProvider{clientOpts: opts}
}

func (p *GeminiProvider) Generate(ctx context.Context, apiKey string, req GenerationRequest) (Result, error) {
	opts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, p.clientOpts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(req.SystemInstruction))
	model.SafetySettings = req.SafetySettings

	var resp *genai.GenerateContentResponse
	if len(req.History) > 0 {
		cs := model.StartChat()
		cs.History = toContents(req.History)
		resp, err = cs.SendMessage(ctx, genai.Text(req.Prompt))
	} else {
		resp, err = model.GenerateContent(ctx, genai.Text(req.Prompt))
	}
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}

	return resultFromResponse(resp), nil
}

func toContents(messages []models.ProviderMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		parts := make([]genai.Part, 0, len(m.Parts))
		for _, p := range m.Parts {
			parts = append(parts, genai.Text(p))
		}
		contents = append(contents, &genai.Content{Role: string(m.Role), Parts: parts})
	}
	return contents
}

func resultFromResponse(resp *genai.GenerateContentResponse) Result {
	text, ok := extractText(resp)
	if !ok {
		return OpaqueResult{Value: resp}
	}
	return TextResult(text)
}

// extractText joins the text parts of the first candidate. ok is false when
// the response carries no text part at all.
func extractText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", false
	}
	cand := resp.Candidates[0]
	if cand.Content == nil {
		return "", false
	}

	var (
		text  strings.Builder
		found bool
	)
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
			found = true
		}
	}
	return text.String(), found
}
