package entities

import "errors"

// Domain errors
var (
	// Session errors
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotCreated = errors.New("session is not in created state")
	ErrSessionTerminal   = errors.New("session already ended")
	ErrSessionNotLive    = errors.New("session has no live attachment")
	ErrReportNotReady    = errors.New("analysis report not available yet")

	// Capture errors
	ErrAlreadyRecording = errors.New("recording already in progress")
	ErrNotRecording     = errors.New("no recording in progress")

	// Dialogue errors
	ErrTurnInProgress = errors.New("dialogue turn already in progress")

	// Knowledge base errors
	ErrKnowledgeBaseNotFound = errors.New("knowledge base not found")
	ErrContentTooLong        = errors.New("content exceeds maximum length")
	ErrContentNotText        = errors.New("content does not look like plain text")
	ErrUnsupportedFileType   = errors.New("unsupported file type")

	// Auth errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	// Generic errors
	ErrInvalidRequest = errors.New("invalid request")
)
