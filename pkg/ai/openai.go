package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

const defaultLLMTimeout = 30 * time.Second

// OpenAIClient is a minimal client for the OpenAI chat completion API, the
// fallback provider in the dialogue chain.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewOpenAIClient creates an OpenAI client using values from the provided
// config. Pass a nil config to fall back to environment variables.
func NewOpenAIClient(cfg *config.LLMConfig) *OpenAIClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.OpenAIAPIKey
		base = cfg.OpenAIBaseURL
		model = cfg.OpenAIModel
	}
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if base == "" {
		base = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}

	timeout := defaultLLMTimeout
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Configured reports whether the client has credentials to call the API.
func (c *OpenAIClient) Configured() bool {
	return c.apiKey != ""
}

// ChatCompletion sends the messages and returns the assistant content
func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("openai client not configured")
	}

	reqBody := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	endpoint := c.baseURL + "/v1/chat/completions"
	cr, err := postChat(ctx, c.client, endpoint, c.apiKey, c.Name(), reqBody)
	if err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return cr.Choices[0].Message.Content, nil
}
