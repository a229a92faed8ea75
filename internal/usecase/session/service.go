package session

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/repositories"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/live"
)

// CreateParams carries the fields for a new training session.
type CreateParams struct {
	UserName        string
	CaseType        string
	AvatarID        string
	Language        string
	KnowledgeBaseID *uuid.UUID
}

// Service manages session records and hands live work to the manager.
type Service struct {
	sessions  repositories.SessionRepository
	knowledge repositories.KnowledgeRepository
	manager   *live.Manager
	logger    *zap.Logger
}

func NewService(sessions repositories.SessionRepository, knowledge repositories.KnowledgeRepository, manager *live.Manager, logger *zap.Logger) *Service {
	return &Service{
		sessions:  sessions,
		knowledge: knowledge,
		manager:   manager,
		logger:    logger,
	}
}

// Create persists a new session in the created state.
func (s *Service) Create(ctx context.Context, params CreateParams) (*entities.Session, error) {
	if params.UserName == "" {
		return nil, entities.ErrInvalidRequest
	}
	if _, ok := entities.FindAvatar(params.AvatarID); !ok {
		return nil, entities.ErrInvalidRequest
	}

	if params.KnowledgeBaseID != nil {
		if _, err := s.knowledge.FindByID(ctx, *params.KnowledgeBaseID); err != nil {
			return nil, err
		}
	}

	session := entities.NewSession(params.UserName, params.CaseType, params.AvatarID, params.Language, params.KnowledgeBaseID)
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("📝 Session created",
			zap.String("session_id", session.ID.String()),
			zap.String("user_name", session.UserName),
			zap.String("avatar_id", session.AvatarID))
	}
	return session, nil
}

// UpdateParams carries optional field changes for a created session.
type UpdateParams struct {
	UserName        *string
	CaseType        *string
	AvatarID        *string
	Language        *string
	KnowledgeBaseID *uuid.UUID
}

// Update changes the pinned configuration of a session. Only sessions that
// have not gone live can be changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*entities.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status != entities.SessionStatusCreated {
		return nil, entities.ErrSessionNotCreated
	}

	if params.UserName != nil {
		if *params.UserName == "" {
			return nil, entities.ErrInvalidRequest
		}
		session.UserName = *params.UserName
	}
	if params.CaseType != nil {
		session.CaseType = *params.CaseType
	}
	if params.AvatarID != nil {
		if _, ok := entities.FindAvatar(*params.AvatarID); !ok {
			return nil, entities.ErrInvalidRequest
		}
		session.AvatarID = *params.AvatarID
	}
	if params.Language != nil {
		session.Language = *params.Language
	}
	if params.KnowledgeBaseID != nil {
		if _, err := s.knowledge.FindByID(ctx, *params.KnowledgeBaseID); err != nil {
			return nil, err
		}
		session.KnowledgeBaseID = params.KnowledgeBaseID
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Get returns one session record.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	return s.sessions.FindByID(ctx, id)
}

// List returns session records, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*entities.Session, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.List(ctx, limit, offset)
}

// Start brings a created session live.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	return s.manager.StartLive(ctx, id)
}

// End finishes a session and returns the final record with its report.
func (s *Service) End(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	return s.manager.EndLive(ctx, id)
}

// Live returns the running live session, if this id has one.
func (s *Service) Live(id uuid.UUID) (*live.Session, bool) {
	return s.manager.Get(id)
}

// Delete removes a session record. Running sessions are ended first.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := s.manager.Get(id); ok {
		if _, err := s.manager.EndLive(ctx, id); err != nil {
			return err
		}
	}
	return s.sessions.Delete(ctx, id)
}

// Report returns the analysis report of an ended session.
func (s *Service) Report(ctx context.Context, id uuid.UUID) (*entities.AnalysisReport, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Report == nil {
		return nil, entities.ErrReportNotReady
	}
	return session.Report, nil
}
