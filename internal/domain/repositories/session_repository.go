package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

// SessionRepository defines the interface for session data access
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error)

	// List returns sessions ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*entities.Session, error)

	// Update persists the full session record
	Update(ctx context.Context, session *entities.Session) error

	// UpdateStatus transitions the status column only if the session is
	// currently in one of the expected states; returns the number of rows
	// changed so callers can detect lost races
	UpdateStatus(ctx context.Context, id uuid.UUID, from []entities.SessionStatus, to entities.SessionStatus) (int64, error)

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error
}
