package entities

import (
	"time"

	"github.com/google/uuid"
)

// Speaker identifies who produced a transcript entry.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerAvatar Speaker = "avatar"
)

// TranscriptEntry is a single dialogue line. Entries are appended in
// chronological order; the slice is persisted as a JSONB column on the
// session.
type TranscriptEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Speaker   Speaker   `json:"speaker"`
	Text      string    `json:"text"`
}

// NewTranscriptEntry stamps a new entry with id and current time.
func NewTranscriptEntry(speaker Speaker, text string) TranscriptEntry {
	return TranscriptEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Speaker:   speaker,
		Text:      text,
	}
}
