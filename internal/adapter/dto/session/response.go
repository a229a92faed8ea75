package session

import "time"

// TranscriptEntryResponse is one exchange line in a session transcript
type TranscriptEntryResponse struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Speaker   string    `json:"speaker"`
	Text      string    `json:"text"`
}

// FlaggedSegmentResponse marks a transcript moment worth reviewing
type FlaggedSegmentResponse struct {
	Timestamp string `json:"time"`
	Reason    string `json:"title"`
	Text      string `json:"snippet"`
}

// ReportResponse is the scored analysis of an ended session
type ReportResponse struct {
	OverallScore      int                      `json:"accuracy"`
	ClarityScore      int                      `json:"clarity"`
	CompletenessScore int                      `json:"completeness"`
	ConsistencyScore  int                      `json:"consistency"`
	Summary           string                   `json:"summary"`
	Highlights        []string                 `json:"highlights"`
	Recommendations   []string                 `json:"recommendations"`
	FlaggedSegments   []FlaggedSegmentResponse `json:"flaggedSegments"`
	Fallback          bool                     `json:"fallback"`
}

// SessionResponse represents a training session in responses
type SessionResponse struct {
	ID              string                    `json:"id"`
	UserName        string                    `json:"userName"`
	CaseType        string                    `json:"caseType,omitempty"`
	AvatarID        string                    `json:"avatarId"`
	Language        string                    `json:"language"`
	Status          string                    `json:"status"`
	KnowledgeBaseID *string                   `json:"knowledgeBaseId,omitempty"`
	StartTime       *time.Time                `json:"startTime,omitempty"`
	EndTime         *time.Time                `json:"endTime,omitempty"`
	DurationSeconds int                       `json:"durationSeconds"`
	Transcript      []TranscriptEntryResponse `json:"transcript,omitempty"`
	Report          *ReportResponse           `json:"report,omitempty"`
	CreatedAt       time.Time                 `json:"createdAt"`
}

// AvatarResponse is one catalog entry
type AvatarResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Languages []string `json:"languages"`
}
