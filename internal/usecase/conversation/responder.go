package conversation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/ai"
)

const (
	replyTemperature = 0.7
	replyMaxTokens   = 120

	baseSystemPrompt = "You are a professional interviewer conducting a witness interview. Ask clear, relevant questions and provide constructive feedback. Keep each reply short enough to be spoken aloud in under twenty seconds."
)

// Responder produces the interviewer's next utterance.
type Responder interface {
	Respond(ctx context.Context, message string, history []entities.TranscriptEntry, kbContent, language string) (string, error)
}

// ChainResponder builds interviewer replies through the provider chain.
type ChainResponder struct {
	chain  *Chain
	logger *zap.Logger
}

// NewResponder creates the production responder.
func NewResponder(chain *Chain, logger *zap.Logger) *ChainResponder {
	return &ChainResponder{chain: chain, logger: logger}
}

// Respond asks the chain for the interviewer's reply to the message, given
// the prior dialogue and the knowledge base material.
func (r *ChainResponder) Respond(ctx context.Context, message string, history []entities.TranscriptEntry, kbContent, language string) (string, error) {
	messages := buildMessages(message, history, kbContent, language)

	content, provider, err := r.chain.Complete(ctx, messages, replyTemperature, replyMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to generate interviewer reply: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("💬 Interviewer reply generated",
			zap.String("provider", provider),
			zap.Int("history_len", len(history)))
	}
	return content, nil
}

// buildMessages assembles the system prompt, prior turns and the new message.
func buildMessages(message string, history []entities.TranscriptEntry, kbContent, language string) []ai.ChatMessage {
	system := baseSystemPrompt
	if kbContent != "" {
		system = fmt.Sprintf("You are a professional interviewer conducting a witness interview. Use the following knowledge base to inform your questions and responses:\n\n%s", kbContent)
	}
	if instruction := ReplyLanguageInstruction(language); instruction != "" {
		system += "\n\n" + instruction
	}

	messages := []ai.ChatMessage{{Role: "system", Content: system}}

	for _, entry := range history {
		role := "user"
		if entry.Speaker == entities.SpeakerAvatar {
			role = "assistant"
		}
		messages = append(messages, ai.ChatMessage{Role: role, Content: entry.Text})
	}

	messages = append(messages, ai.ChatMessage{Role: "user", Content: message})
	return messages
}
