package translation

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI translates with the OpenAI chat completion API.
type OpenAI struct {
	cfg    Config
	client chatClient
}

// NewOpenAI creates an OpenAI translator.
func NewOpenAI(cfg Config) (*OpenAI, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI %w", ErrNoAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	return &OpenAI{
		cfg:    cfg,
		client: openai.NewClient(cfg.OpenAIKey),
	}, nil
}

// Translate translates a word
func (o *OpenAI) Translate(ctx context.Context, word string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt(o.cfg, word),
			},
		},
		MaxTokens:   50,
		Temperature: 0.3,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no translation returned")
	}

	return clean(resp.Choices[0].Message.Content), nil
}
