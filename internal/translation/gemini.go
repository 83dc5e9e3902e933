package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini translates with the Gemini API.
type Gemini struct {
	cfg    Config
	models contentGenerator
}

// NewGemini creates a Gemini translator.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini %w", ErrNoAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Gemini{cfg: cfg, models: client.Models}, nil
}

// Translate translates a word
func (g *Gemini) Translate(ctx context.Context, word string) (string, error) {
	temperature := float32(0.3)
	resp, err := g.models.GenerateContent(ctx, g.cfg.Model, genai.Text(prompt(g.cfg, word)),
		&genai.GenerateContentConfig{Temperature: &temperature})
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	text := clean(resp.Text())
	if text == "" {
		return "", fmt.Errorf("no translation returned")
	}
	return text, nil
}
