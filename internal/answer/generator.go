package answer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/aftab707/LegalAdvisor/internal/config"
)

// ErrEmptyCompletion is returned when the model responds without any choices
var ErrEmptyCompletion = errors.New("model returned no completion")

// Generator produces grounded answers through an OpenAI-compatible chat
// completion endpoint. The grounding contract lives entirely in the
// prompt template; the generator returns whatever the model produces.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGenerator creates a generator from the LLM configuration
func NewGenerator(cfg config.LLMConfig) *Generator {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// Generate answers the question from the given context string
func (g *Generator) Generate(ctx context.Context, contextText, question string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemInstructions,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildPrompt(contextText, question),
			},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return resp.Choices[0].Message.Content, nil
}
