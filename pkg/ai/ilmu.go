package ai

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

// IlmuClient is a minimal client for the ILMU chat completion API, the
// primary provider in the dialogue chain. The API is OpenAI-compatible.
type IlmuClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewIlmuClient creates an ILMU client using values from the provided config.
// Pass a nil config to fall back to environment variables.
func NewIlmuClient(cfg *config.LLMConfig) *IlmuClient {
	var apiKey, base, model string
	if cfg != nil {
		apiKey = cfg.IlmuAPIKey
		base = cfg.IlmuBaseURL
		model = cfg.IlmuModel
	}
	if apiKey == "" {
		apiKey = os.Getenv("ILMU_API_KEY")
	}
	if base == "" {
		base = os.Getenv("ILMU_BASE_URL")
	}
	if model == "" {
		model = "ilmu-chat"
	}

	timeout := defaultLLMTimeout
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	return &IlmuClient{
		apiKey:  apiKey,
		baseURL: base,
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Name identifies the provider in logs
func (c *IlmuClient) Name() string {
	return "ilmu"
}

// Configured reports whether the client has credentials to call the API.
func (c *IlmuClient) Configured() bool {
	return c.apiKey != "" && c.baseURL != ""
}

// ChatCompletion sends the messages and returns the assistant content
func (c *IlmuClient) ChatCompletion(ctx context.Context, messages []ChatMessage, temperature float64, maxTokens int) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("ilmu client not configured")
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
		return "", fmt.Errorf("empty response from ilmu")
	}
	return cr.Choices[0].Message.Content, nil
}
