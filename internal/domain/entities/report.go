package entities

// FlaggedSegment marks a transcript passage the analysis considered
// problematic.
type FlaggedSegment struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
	Reason    string `json:"reason"`
}

// AnalysisReport is the scored assessment produced when a session ends.
// Scores are normalized to the [0,100] range before the report is stored.
type AnalysisReport struct {
	OverallScore      int              `json:"overall_score"`
	ClarityScore      int              `json:"clarity_score"`
	CompletenessScore int              `json:"completeness_score"`
	ConsistencyScore  int              `json:"consistency_score"`
	Summary           string           `json:"summary"`
	Highlights        []string         `json:"highlights"`
	Recommendations   []string         `json:"recommendations"`
	FlaggedSegments   []FlaggedSegment `json:"flagged_segments"`
	Fallback          bool             `json:"fallback,omitempty"`
}
