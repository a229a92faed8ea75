package live

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/repositories"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/external/avatar"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/stt"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/analysis"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
)

// KnowledgeContent resolves the interview protocol text for a session.
type KnowledgeContent interface {
	Content(ctx context.Context, id *uuid.UUID) (string, error)
}

// Manager owns every running live session. It builds the per-session
// controllers, tracks them in a registry and routes start/end requests.
type Manager struct {
	sessions  repositories.SessionRepository
	knowledge KnowledgeContent
	client    avatar.Client
	rooms     avatar.RoomConnector
	streams   stt.StreamingFactory
	batch     stt.BatchTranscriber
	archiver  AudioArchiver
	responder conversation.Responder
	finalizer *Finalizer
	logger    *zap.Logger

	mu   sync.Mutex
	live map[uuid.UUID]*Session
}

func NewManager(sessions repositories.SessionRepository, knowledge KnowledgeContent, client avatar.Client, rooms avatar.RoomConnector, streams stt.StreamingFactory, batch stt.BatchTranscriber, archiver AudioArchiver, responder conversation.Responder, analyzer *analysis.Service, logger *zap.Logger) *Manager {
	return &Manager{
		sessions:  sessions,
		knowledge: knowledge,
		client:    client,
		rooms:     rooms,
		streams:   streams,
		batch:     batch,
		archiver:  archiver,
		responder: responder,
		finalizer: NewFinalizer(sessions, analyzer, logger),
		logger:    logger,
		live:      make(map[uuid.UUID]*Session),
	}
}

// StartLive brings a created session online. On startup failure the
// session is marked failed and never retried.
func (m *Manager) StartLive(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	entity, err := m.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanStart() {
		return nil, entities.ErrSessionNotCreated
	}

	kbContent, err := m.knowledge.Content(ctx, entity.KnowledgeBaseID)
	if err != nil {
		return nil, err
	}

	s, err := m.register(entity, kbContent)
	if err != nil {
		return nil, err
	}

	// claim the created -> active transition; a concurrent start on
	// another instance loses the row-guarded update and backs off
	claimed, err := m.sessions.UpdateStatus(ctx, id, []entities.SessionStatus{entities.SessionStatusCreated}, entities.SessionStatusActive)
	if err != nil || claimed == 0 {
		m.deregister(id)
		s.shutdown()
		if err != nil {
			return nil, err
		}
		return nil, entities.ErrSessionNotCreated
	}

	if err := s.start(ctx); err != nil {
		m.deregister(id)
		s.shutdown()
		entity.MarkFailed()
		if uerr := m.sessions.Update(ctx, entity); uerr != nil && m.logger != nil {
			m.logger.Error("❌ Failed to persist failed session", zap.Error(uerr))
		}
		if m.logger != nil {
			m.logger.Error("❌ Live session startup failed",
				zap.String("session_id", id.String()),
				zap.Error(err))
		}
		return nil, err
	}

	entity.MarkActive()
	if err := m.sessions.Update(ctx, entity); err != nil {
		if m.logger != nil {
			m.logger.Error("❌ Failed to persist active session", zap.Error(err))
		}
	}
	return entity, nil
}

// register builds the session shell, its controllers and the loop. A
// second start for the same id is rejected here.
func (m *Manager) register(entity *entities.Session, kbContent string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.live[entity.ID]; ok {
		return nil, entities.ErrSessionNotCreated
	}

	events := NewBroadcaster()
	s := newSession(entity, kbContent, m.finalizer, events, m.sessions, m.logger)

	transport := NewTransportController(s.id, m.client, m.rooms, events, s.post, m.logger)
	capture := NewCaptureController(s.id, conversation.SpeechLocale(entity.Language), m.streams, m.batch, m.archiver, events, s.post, m.logger)
	dialogue := NewDialogueController(s.id, kbContent, entity.Language, m.responder, transport, events, s.post, m.logger)

	// a finished recording flows straight into the dialogue; the handler
	// already runs on the session loop. Finals that resolve after the
	// session ended are dropped, the transcript is frozen at end.
	capture.SetFinalHandler(func(text string) {
		if s.ended {
			return
		}
		_ = dialogue.Submit(context.Background(), text)
	})

	s.transport = transport
	s.capture = capture
	s.dialogue = dialogue

	m.live[entity.ID] = s
	go s.run()
	return s, nil
}

func (m *Manager) deregister(id uuid.UUID) {
	m.mu.Lock()
	delete(m.live, id)
	m.mu.Unlock()
}

// Get returns the running live session for id, if any.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.live[id]
	return s, ok
}

// EndLive finishes a session. Ending an already terminal session returns
// the stored record; ending a created session that never went live closes
// it with an empty transcript.
func (m *Manager) EndLive(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	if s, ok := m.Get(id); ok {
		final, err := s.End(ctx)
		m.deregister(id)
		return final, err
	}

	entity, err := m.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity.IsTerminal() {
		return entity, nil
	}
	return m.finalizer.Finalize(ctx, entity, nil, 0, "")
}

// Shutdown ends every running session, used on server stop.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	ids := make([]uuid.UUID, 0, len(m.live))
	for id := range m.live {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	for _, id := range ids {
		if _, err := m.EndLive(ctx, id); err != nil && m.logger != nil {
			m.logger.Warn("⚠️ Failed to end session during shutdown",
				zap.String("session_id", id.String()),
				zap.Error(err))
		}
	}
}
