package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
	"github.com/LuqmanKt98/testify-ai-avatar/pkg/ai"
)

const (
	analysisTemperature = 0.4
	analysisMaxTokens   = 2500

	analystSystemPrompt = "You are a senior legal analyst with 20+ years of experience evaluating witness testimony. You are known for being thorough, realistic, and constructively critical. Be specific, cite actual examples from the transcript, and give realistic scores. Always respond with valid JSON only."
)

// Service evaluates a finished session transcript. Analyze never fails
// outward: when every provider or the parse fails it returns the
// deterministic fallback report.
type Service struct {
	chain  *conversation.Chain
	parser *Parser
	logger *zap.Logger
}

// NewService creates the analysis service.
func NewService(chain *conversation.Chain, logger *zap.Logger) *Service {
	return &Service{
		chain:  chain,
		parser: NewParser(),
		logger: logger,
	}
}

// Analyze scores the transcript against the knowledge base material.
func (s *Service) Analyze(ctx context.Context, entries []entities.TranscriptEntry, kbContent string, durationSeconds int) *entities.AnalysisReport {
	userTurns := countUserTurns(entries)

	if s.logger != nil {
		s.logger.Info("🔍 Starting session analysis",
			zap.Int("entries", len(entries)),
			zap.Int("user_turns", userTurns),
			zap.Bool("knowledge_base", kbContent != ""))
	}

	if len(entries) == 0 {
		return s.parser.FallbackReport(0)
	}

	prompt := buildAnalysisPrompt(entries, kbContent, durationSeconds)
	messages := []ai.ChatMessage{
		{Role: "system", Content: analystSystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, provider, err := s.chain.Complete(ctx, messages, analysisTemperature, analysisMaxTokens)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Analysis providers failed, using fallback report", zap.Error(err))
		}
		return s.parser.FallbackReport(userTurns)
	}

	report, err := s.parser.ParseReport(content)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to parse analysis response, using fallback report",
				zap.String("provider", provider),
				zap.Error(err))
		}
		return s.parser.FallbackReport(userTurns)
	}

	if s.logger != nil {
		s.logger.Info("📊 Analysis completed",
			zap.String("provider", provider),
			zap.Int("overall", report.OverallScore),
			zap.Int("clarity", report.ClarityScore),
			zap.Int("completeness", report.CompletenessScore),
			zap.Int("consistency", report.ConsistencyScore))
	}
	return report
}

// buildAnalysisPrompt lays out the transcript, the reference material and the
// required JSON shape.
func buildAnalysisPrompt(entries []entities.TranscriptEntry, kbContent string, durationSeconds int) string {
	var b strings.Builder

	if kbContent != "" {
		b.WriteString("KNOWLEDGE BASE (Reference Facts & Expected Information):\n")
		b.WriteString(kbContent)
		b.WriteString("\n\nCompare the witness testimony against these facts. Identify what they got right, what they got wrong, and what they omitted.\n\n")
	}

	b.WriteString(fmt.Sprintf("INTERVIEW TRANSCRIPT (%d witness responses):\n", countUserTurns(entries)))
	for _, e := range entries {
		speaker := "Interviewer"
		if e.Speaker == entities.SpeakerUser {
			speaker = "Witness"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", e.Timestamp.Format("15:04:05"), speaker, e.Text))
	}

	if durationSeconds > 0 {
		b.WriteString(fmt.Sprintf("\nSession Duration: %d:%02d\n", durationSeconds/60, durationSeconds%60))
	}

	b.WriteString(`
Evaluate the witness on four dimensions, each 0-100: accuracy (factual correctness against the knowledge base, or internal coherence without one), clarity (articulation, filler words, focus), completeness (coverage of the expected material), and consistency (no contradictions across the conversation). Most witnesses score 60-85; be realistic and evidence-based.

Also produce: 3-5 specific highlights referencing actual quotes or moments, 3-5 actionable recommendations, flagged segments for problematic passages (timestamp, issue title, snippet; at most 5), and a 2-4 sentence summary.

RESPONSE FORMAT (Valid JSON only):
{
  "accuracy": <number 0-100>,
  "clarity": <number 0-100>,
  "completeness": <number 0-100>,
  "consistency": <number 0-100>,
  "highlights": ["..."],
  "recommendations": ["..."],
  "flaggedSegments": [{"time": "02:15", "title": "...", "snippet": "..."}],
  "summary": "..."
}`)

	return b.String()
}

func countUserTurns(entries []entities.TranscriptEntry) int {
	count := 0
	for _, e := range entries {
		if e.Speaker == entities.SpeakerUser {
			count++
		}
	}
	return count
}
