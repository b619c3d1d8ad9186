package consolidate

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"shoplist-generator/internal/infrastructure/config"
	"shoplist-generator/internal/pkg/common"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

// TextGenerator produces a free-text completion for a prompt.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiClient calls the Gemini generateContent endpoint.
type GeminiClient struct {
	config *config.Config
	client *resty.Client
}

// NewGeminiClient creates a Gemini client from the configuration.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	client := resty.New().
		SetBaseURL(geminiBaseURL).
		SetHeader("x-goog-api-key", cfg.Gemini.APIKey)

	return &GeminiClient{
		config: cfg,
		client: client,
	}
}

// Generate sends a single-turn prompt and returns the reply text.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	req := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":     0.2,
			"maxOutputTokens": c.config.Gemini.MaxTokens,
			"topP":            0.8,
			"topK":            40,
		},
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post(fmt.Sprintf("/models/%s:generateContent", c.config.Gemini.Model))
	if err != nil {
		return "", fmt.Errorf("failed to send request to Gemini: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("Gemini API returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in Gemini response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}
