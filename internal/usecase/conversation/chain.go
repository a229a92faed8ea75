package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/ai"
)

// Chain tries each configured provider in order and returns the first
// successful completion. No retries within a provider; a failed provider is
// simply skipped for this call.
type Chain struct {
	providers []ai.ChatClient
	logger    *zap.Logger
}

// NewChain builds a provider chain. Nil providers are dropped.
func NewChain(logger *zap.Logger, providers ...ai.ChatClient) *Chain {
	chain := &Chain{logger: logger}
	for _, p := range providers {
		if p != nil {
			chain.providers = append(chain.providers, p)
		}
	}
	return chain
}

// Complete runs the chain and returns the assistant content and the name of
// the provider that produced it.
func (c *Chain) Complete(ctx context.Context, messages []ai.ChatMessage, temperature float64, maxTokens int) (string, string, error) {
	if len(c.providers) == 0 {
		return "", "", fmt.Errorf("no language model providers configured")
	}

	var lastErr error
	for _, provider := range c.providers {
		content, err := provider.ChatCompletion(ctx, messages, temperature, maxTokens)
		if err != nil {
			lastErr = err
			if c.logger != nil {
				c.logger.Warn("⚠️ LLM provider failed, trying next",
					zap.String("provider", provider.Name()),
					zap.Error(err))
			}
			continue
		}
		return content, provider.Name(), nil
	}

	return "", "", fmt.Errorf("all language model providers failed: %w", lastErr)
}
