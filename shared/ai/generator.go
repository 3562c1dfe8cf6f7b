package ai

import (
	"context"
	"fmt"
	"strings"

	"farm-assist/shared/config"

	"google.golang.org/genai"
)

// Client wraps the Gemini API behind a plain (system, user) -> text call.
type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, cfg *config.AIConfig) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.GeminiAPIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate sends the system and user prompts and returns the raw text
// response. An empty response is an error; callers decide what fallback the
// end user sees.
func (c *Client) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	parts := []*genai.Part{
		genai.NewPartFromText(systemPrompt),
		genai.NewPartFromText(userPrompt),
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", fmt.Errorf("empty response from model %s", c.model)
	}

	return text, nil
}
