package entities

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a training session.
type SessionStatus string

const (
	SessionStatusCreated SessionStatus = "created"
	SessionStatusActive  SessionStatus = "active"
	SessionStatusEnded   SessionStatus = "ended"
	SessionStatusFailed  SessionStatus = "failed"
)

// Session is a testimony-training session. Configuration fields are pinned
// at creation time; transcript and report are filled in during and after
// the live phase.
type Session struct {
	ID              uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserName        string            `json:"user_name" gorm:"type:varchar(255);not null"`
	CaseType        string            `json:"case_type" gorm:"type:varchar(100);not null"`
	AvatarID        string            `json:"avatar_id" gorm:"type:varchar(100);not null"`
	Language        string            `json:"language" gorm:"type:varchar(20);not null;default:'en'"`
	Status          SessionStatus     `json:"status" gorm:"type:varchar(20);not null;default:'created';index"`
	KnowledgeBaseID *uuid.UUID        `json:"knowledge_base_id,omitempty" gorm:"type:uuid;index"`
	StartTime       *time.Time        `json:"start_time,omitempty" gorm:"type:timestamp"`
	EndTime         *time.Time        `json:"end_time,omitempty" gorm:"type:timestamp"`
	DurationSeconds int               `json:"duration_seconds" gorm:"default:0"`
	Transcript      []TranscriptEntry `json:"transcript,omitempty" gorm:"type:jsonb;serializer:json"`
	Report          *AnalysisReport   `json:"report,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time         `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Session) TableName() string {
	return "sessions"
}

// NewSession pins the session configuration and starts in the created state.
func NewSession(userName, caseType, avatarID, language string, kbID *uuid.UUID) *Session {
	if language == "" {
		language = "en"
	}
	return &Session{
		ID:              uuid.New(),
		UserName:        userName,
		CaseType:        caseType,
		AvatarID:        avatarID,
		Language:        language,
		Status:          SessionStatusCreated,
		KnowledgeBaseID: kbID,
		Transcript:      []TranscriptEntry{},
		CreatedAt:       time.Now(),
	}
}

// IsTerminal reports whether the session can no longer transition.
func (s *Session) IsTerminal() bool {
	return s.Status == SessionStatusEnded || s.Status == SessionStatusFailed
}

// CanStart reports whether a live attachment may begin.
func (s *Session) CanStart() bool {
	return s.Status == SessionStatusCreated
}

// MarkActive records the live start.
func (s *Session) MarkActive() {
	now := time.Now()
	s.Status = SessionStatusActive
	s.StartTime = &now
}

// MarkFailed records a failed startup sequence.
func (s *Session) MarkFailed() {
	s.Status = SessionStatusFailed
}

// MarkEnded records teardown results. Duration comes from the session
// ticker, not wall clock.
func (s *Session) MarkEnded(durationSeconds int, transcript []TranscriptEntry) {
	now := time.Now()
	s.Status = SessionStatusEnded
	s.EndTime = &now
	s.DurationSeconds = durationSeconds
	s.Transcript = transcript
}

// UserTurnCount counts transcript entries spoken by the trainee.
func (s *Session) UserTurnCount() int {
	count := 0
	for _, e := range s.Transcript {
		if e.Speaker == SpeakerUser {
			count++
		}
	}
	return count
}
