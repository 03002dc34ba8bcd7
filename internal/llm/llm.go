package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"google.golang.org/genai"
)

// DefaultModel is the default Gemini model used for summarization and
// metadata extraction.
const DefaultModel = "gemini-flash-lite-latest"

// Client wraps a Gemini client for single-shot text generation.
type Client struct {
	apiKey    string
	modelName string
	gClient   *genai.Client
}

// NewClient creates a new LLM client.
// It supports multiple ways to get the API key (in order of preference):
// 1. Environment variable: GEMINI_API_KEY (or alternatives)
// 2. Viper configuration: ai.gemini.api_key
func NewClient(modelName string) (*Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		if apiKey = os.Getenv("GOOGLE_GEMINI_API_KEY"); apiKey == "" {
			if apiKey = os.Getenv("GOOGLE_AI_API_KEY"); apiKey == "" {
				apiKey = viper.GetString("ai.gemini.api_key")
			}
		}
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required. Set GEMINI_API_KEY environment variable or ai.gemini.api_key in config file")
	}

	if modelName == "" {
		modelName = viper.GetString("ai.gemini.model")
		if modelName == "" {
			modelName = DefaultModel
		}
	}

	ctx := context.Background()
	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		apiKey:    apiKey,
		modelName: modelName,
		gClient:   gClient,
	}, nil
}

// ModelName returns the model this client generates with.
func (c *Client) ModelName() string {
	return c.modelName
}

// GenerateText issues a single non-streaming completion request and returns
// the trimmed response text. The caller bounds the call with ctx.
func (c *Client) GenerateText(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}

	resp, err := c.gClient.Models.GenerateContent(ctx, c.modelName, contents, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
