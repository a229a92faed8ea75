package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport_NormalizesScores(t *testing.T) {
	tests := []struct {
		name     string
		accuracy string
		want     int
	}{
		{"in range", "72", 72},
		{"above range", "150", 100},
		{"negative", "-10", 0},
		{"numeric string", `"85"`, 85},
		{"non-numeric string", `"excellent"`, 0},
		{"missing", "null", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewParser()
			input := fmt.Sprintf(`{"accuracy": %s, "clarity": 80, "completeness": 70, "consistency": 75, "summary": "ok"}`, tt.accuracy)

			report, err := p.ParseReport(input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, report.OverallScore)
		})
	}
}

func TestParseReport_TruncatesLists(t *testing.T) {
	p := NewParser()

	highlights := `["a","b","c","d","e","f","g","h"]`
	segments := ""
	for i := 0; i < 12; i++ {
		if i > 0 {
			segments += ","
		}
		segments += fmt.Sprintf(`{"time":"0%d:00","title":"t%d","snippet":"s%d"}`, i%10, i, i)
	}
	input := fmt.Sprintf(`{"accuracy":70,"clarity":70,"completeness":70,"consistency":70,"highlights":%s,"recommendations":%s,"flaggedSegments":[%s],"summary":"ok"}`,
		highlights, highlights, segments)

	report, err := p.ParseReport(input)
	require.NoError(t, err)

	assert.Len(t, report.Highlights, 6)
	assert.Len(t, report.Recommendations, 6)
	assert.Len(t, report.FlaggedSegments, 10)
	assert.Equal(t, "t0", report.FlaggedSegments[0].Reason)
	assert.Equal(t, "s0", report.FlaggedSegments[0].Text)
}

func TestParseReport_DefaultSummary(t *testing.T) {
	p := NewParser()

	report, err := p.ParseReport(`{"accuracy":70,"clarity":70,"completeness":70,"consistency":70}`)
	require.NoError(t, err)

	assert.Equal(t, "Analysis completed successfully.", report.Summary)
	assert.NotNil(t, report.Highlights)
	assert.NotNil(t, report.Recommendations)
	assert.NotNil(t, report.FlaggedSegments)
}

func TestParseReport_StripsCodeFences(t *testing.T) {
	p := NewParser()

	input := "```json\n{\"accuracy\": 65, \"clarity\": 70, \"completeness\": 60, \"consistency\": 68, \"summary\": \"fenced\"}\n```"
	report, err := p.ParseReport(input)
	require.NoError(t, err)

	assert.Equal(t, 65, report.OverallScore)
	assert.Equal(t, "fenced", report.Summary)
}

func TestParseReport_InvalidJSON(t *testing.T) {
	p := NewParser()

	_, err := p.ParseReport("the witness did fine")
	assert.Error(t, err)
}

func TestFallbackReport_Scores(t *testing.T) {
	p := NewParser()

	tests := []struct {
		userTurns        int
		wantOverall      int
		wantClarity      int
		wantCompleteness int
		wantConsistency  int
	}{
		{0, 60, 65, 70, 63},
		{4, 72, 77, 70, 75},
		{10, 85, 90, 80, 88},
		{50, 85, 90, 80, 88},
	}

	for _, tt := range tests {
		report := p.FallbackReport(tt.userTurns)
		assert.Equal(t, tt.wantOverall, report.OverallScore, "overall for %d turns", tt.userTurns)
		assert.Equal(t, tt.wantClarity, report.ClarityScore, "clarity for %d turns", tt.userTurns)
		assert.Equal(t, tt.wantCompleteness, report.CompletenessScore, "completeness for %d turns", tt.userTurns)
		assert.Equal(t, tt.wantConsistency, report.ConsistencyScore, "consistency for %d turns", tt.userTurns)
		assert.True(t, report.Fallback)
		assert.Empty(t, report.FlaggedSegments)
		assert.Len(t, report.Highlights, 3)
	}
}

func TestFallbackReport_EngagementHighlight(t *testing.T) {
	p := NewParser()

	few := p.FallbackReport(3)
	assert.Contains(t, few.Highlights, "Completed the interview session")

	many := p.FallbackReport(8)
	assert.Contains(t, many.Highlights, "Maintained engagement throughout the session")
}
