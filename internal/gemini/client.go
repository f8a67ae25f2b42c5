// Package gemini wraps the Google generative AI client behind a small
// text-in/text-out surface.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model, timeout: timeout}, nil
}

func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// GenerateText sends a single prompt and returns the concatenated text
// parts of the first candidate. A hung upstream call is cut off by the
// configured timeout.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text response")
	}
	return strings.TrimSpace(out.String()), nil
}
