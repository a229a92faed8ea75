package analysis

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

const (
	maxHighlights      = 6
	maxRecommendations = 6
	maxFlaggedSegments = 10

	defaultSummary = "Analysis completed successfully."
)

// rawReport matches the JSON shape the model is asked to produce.
type rawReport struct {
	Accuracy        interface{}  `json:"accuracy"`
	Clarity         interface{}  `json:"clarity"`
	Completeness    interface{}  `json:"completeness"`
	Consistency     interface{}  `json:"consistency"`
	Highlights      []string     `json:"highlights"`
	Recommendations []string     `json:"recommendations"`
	FlaggedSegments []rawSegment `json:"flaggedSegments"`
	Summary         string       `json:"summary"`
}

type rawSegment struct {
	Time    string `json:"time"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Parser turns model output into a normalized report.
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseReport parses the model's JSON response and normalizes every field:
// scores are clamped to [0,100], list lengths are capped, and a missing
// summary gets the default text.
func (p *Parser) ParseReport(jsonString string) (*entities.AnalysisReport, error) {
	jsonString = extractJSON(jsonString)

	var raw rawReport
	if err := json.Unmarshal([]byte(jsonString), &raw); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	report := &entities.AnalysisReport{
		OverallScore:      normalizeScore(raw.Accuracy),
		ClarityScore:      normalizeScore(raw.Clarity),
		CompletenessScore: normalizeScore(raw.Completeness),
		ConsistencyScore:  normalizeScore(raw.Consistency),
		Highlights:        truncate(raw.Highlights, maxHighlights),
		Recommendations:   truncate(raw.Recommendations, maxRecommendations),
		FlaggedSegments:   convertSegments(raw.FlaggedSegments),
		Summary:           raw.Summary,
	}
	if report.Summary == "" {
		report.Summary = defaultSummary
	}

	return report, nil
}

// FallbackReport builds the deterministic report used when every provider
// fails. Scores are estimated from how much the trainee spoke.
func (p *Parser) FallbackReport(userTurns int) *entities.AnalysisReport {
	base := 60 + userTurns*3
	if base > 85 {
		base = 85
	}

	engagement := "Completed the interview session"
	if userTurns > 5 {
		engagement = "Maintained engagement throughout the session"
	}

	return &entities.AnalysisReport{
		OverallScore:      base,
		ClarityScore:      minInt(90, base+5),
		CompletenessScore: maxInt(70, base-5),
		ConsistencyScore:  minInt(88, base+3),
		Highlights: []string{
			"Participated actively in the interview session",
			"Provided responses to all questions asked",
			engagement,
		},
		Recommendations: []string{
			"Consider providing more detailed responses",
			"Practice articulating thoughts more clearly",
			"Review the knowledge base material for better preparation",
			"Work on reducing hesitations and filler words",
		},
		FlaggedSegments: []entities.FlaggedSegment{},
		Summary:         "Analysis completed with limited AI capabilities. Scores are estimated based on transcript characteristics.",
		Fallback:        true,
	}
}

// normalizeScore clamps to [0,100]; anything non-numeric counts as zero.
// Models occasionally return scores as strings, so both forms are accepted.
func normalizeScore(value interface{}) int {
	var v int
	switch n := value.(type) {
	case float64:
		v = int(n)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			if f, ferr := strconv.ParseFloat(strings.TrimSpace(n), 64); ferr == nil {
				parsed = int(f)
			}
		}
		v = parsed
	default:
		v = 0
	}
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func truncate(items []string, max int) []string {
	if items == nil {
		return []string{}
	}
	if len(items) > max {
		items = items[:max]
	}
	return items
}

func convertSegments(raw []rawSegment) []entities.FlaggedSegment {
	if len(raw) > maxFlaggedSegments {
		raw = raw[:maxFlaggedSegments]
	}
	segments := make([]entities.FlaggedSegment, 0, len(raw))
	for _, s := range raw {
		segments = append(segments, entities.FlaggedSegment{
			Timestamp: s.Time,
			Text:      s.Snippet,
			Reason:    s.Title,
		})
	}
	return segments
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
