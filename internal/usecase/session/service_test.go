package session

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
)

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entities.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*entities.Session)}
}

func (r *memSessionRepo) Create(_ context.Context, s *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSessionRepo) List(_ context.Context, limit, offset int) ([]*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memSessionRepo) Update(_ context.Context, s *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[s.ID]; !ok {
		return entities.ErrSessionNotFound
	}
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *memSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from []entities.SessionStatus, to entities.SessionStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return 0, nil
	}
	for _, f := range from {
		if s.Status == f {
			s.Status = to
			return 1, nil
		}
	}
	return 0, nil
}

func (r *memSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

type memKnowledgeRepo struct {
	mu    sync.Mutex
	bases map[uuid.UUID]*entities.KnowledgeBase
}

func newMemKnowledgeRepo() *memKnowledgeRepo {
	return &memKnowledgeRepo{bases: make(map[uuid.UUID]*entities.KnowledgeBase)}
}

func (r *memKnowledgeRepo) Create(_ context.Context, kb *entities.KnowledgeBase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if kb.ID == uuid.Nil {
		kb.ID = uuid.New()
	}
	r.bases[kb.ID] = kb
	return nil
}

func (r *memKnowledgeRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kb, ok := r.bases[id]
	if !ok {
		return nil, entities.ErrKnowledgeBaseNotFound
	}
	return kb, nil
}

func (r *memKnowledgeRepo) FindBuiltIn(_ context.Context) (*entities.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, kb := range r.bases {
		if kb.BuiltIn {
			return kb, nil
		}
	}
	return nil, entities.ErrKnowledgeBaseNotFound
}

func (r *memKnowledgeRepo) List(_ context.Context) ([]*entities.KnowledgeBase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.KnowledgeBase, 0, len(r.bases))
	for _, kb := range r.bases {
		out = append(out, kb)
	}
	return out, nil
}

func (r *memKnowledgeRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bases, id)
	return nil
}

func newTestService(t *testing.T) (*Service, *memSessionRepo, *memKnowledgeRepo) {
	t.Helper()
	sessions := newMemSessionRepo()
	knowledge := newMemKnowledgeRepo()
	return NewService(sessions, knowledge, nil, zap.NewNop()), sessions, knowledge
}

func strPtr(s string) *string { return &s }

func TestCreateSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateParams{
		UserName: "Jane Doe",
		CaseType: "civil",
		AvatarID: "Dexter_Lawyer_Sitting_public",
		Language: "en",
	})
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCreated, created.Status)
	assert.Equal(t, "Jane Doe", created.UserName)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateParams{
		UserName: "",
		AvatarID: "Dexter_Lawyer_Sitting_public",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)

	_, err = svc.Create(context.Background(), CreateParams{
		UserName: "Jane",
		AvatarID: "no-such-avatar",
	})
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)
}

func TestCreateSessionUnknownKnowledgeBase(t *testing.T) {
	svc, _, _ := newTestService(t)

	missing := uuid.New()
	_, err := svc.Create(context.Background(), CreateParams{
		UserName:        "Jane",
		AvatarID:        "Dexter_Lawyer_Sitting_public",
		KnowledgeBaseID: &missing,
	})
	assert.ErrorIs(t, err, entities.ErrKnowledgeBaseNotFound)
}

func TestUpdateSession(t *testing.T) {
	svc, _, knowledge := newTestService(t)

	kb := &entities.KnowledgeBase{Name: "Custom", Content: "rules"}
	require.NoError(t, knowledge.Create(context.Background(), kb))

	created, err := svc.Create(context.Background(), CreateParams{
		UserName: "Jane",
		AvatarID: "Dexter_Lawyer_Sitting_public",
		Language: "en",
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, UpdateParams{
		UserName:        strPtr("Janet"),
		Language:        strPtr("ms"),
		KnowledgeBaseID: &kb.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Janet", updated.UserName)
	assert.Equal(t, "ms", updated.Language)
	require.NotNil(t, updated.KnowledgeBaseID)
	assert.Equal(t, kb.ID, *updated.KnowledgeBaseID)

	// Untouched fields survive.
	assert.Equal(t, "Dexter_Lawyer_Sitting_public", updated.AvatarID)
}

func TestUpdateSessionRejectedAfterStart(t *testing.T) {
	svc, sessions, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateParams{
		UserName: "Jane",
		AvatarID: "Dexter_Lawyer_Sitting_public",
	})
	require.NoError(t, err)

	created.MarkActive()
	require.NoError(t, sessions.Update(context.Background(), created))

	_, err = svc.Update(context.Background(), created.ID, UpdateParams{UserName: strPtr("Janet")})
	assert.ErrorIs(t, err, entities.ErrSessionNotCreated)
}

func TestUpdateSessionRejectsBadFields(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateParams{
		UserName: "Jane",
		AvatarID: "Dexter_Lawyer_Sitting_public",
	})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, UpdateParams{UserName: strPtr("")})
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)

	_, err = svc.Update(context.Background(), created.ID, UpdateParams{AvatarID: strPtr("bogus")})
	assert.ErrorIs(t, err, entities.ErrInvalidRequest)
}

func TestListClampsPaging(t *testing.T) {
	svc, _, _ := newTestService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(context.Background(), CreateParams{
			UserName: "Jane",
			AvatarID: "Dexter_Lawyer_Sitting_public",
		})
		require.NoError(t, err)
	}

	out, err := svc.List(context.Background(), -5, -1)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	out, err = svc.List(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestReportNotReady(t *testing.T) {
	svc, _, _ := newTestService(t)

	created, err := svc.Create(context.Background(), CreateParams{
		UserName: "Jane",
		AvatarID: "Dexter_Lawyer_Sitting_public",
	})
	require.NoError(t, err)

	_, err = svc.Report(context.Background(), created.ID)
	assert.ErrorIs(t, err, entities.ErrReportNotReady)
}
