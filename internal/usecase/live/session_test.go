package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/external/avatar"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/analysis"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
)

type fakeKnowledge struct{}

func (fakeKnowledge) Content(_ context.Context, _ *uuid.UUID) (string, error) {
	return "Interview protocol.", nil
}

type managerFixture struct {
	manager   *Manager
	repo      *fakeSessionRepo
	client    *fakeAvatarClient
	connector *fakeConnector
	responder *fakeResponder
	batch     *fakeBatch
	entity    *entities.Session
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	repo := newFakeSessionRepo()
	client := &fakeAvatarClient{}
	connector := &fakeConnector{}
	responder := &fakeResponder{reply: "Good morning. Please state your name."}
	batch := &fakeBatch{text: "spoken answer"}
	// an empty provider chain forces the deterministic report
	analyzer := analysis.NewService(conversation.NewChain(zap.NewNop()), zap.NewNop())

	m := NewManager(repo, fakeKnowledge{}, client, connector, &fakeStreamFactory{}, batch, &fakeArchiver{}, responder, analyzer, zap.NewNop())

	entity := entities.NewSession("Jane Doe", "civil", "Dexter_Lawyer_Sitting_public", "en", nil)
	require.NoError(t, repo.Create(context.Background(), entity))

	return &managerFixture{
		manager:   m,
		repo:      repo,
		client:    client,
		connector: connector,
		responder: responder,
		batch:     batch,
		entity:    entity,
	}
}

func (f *managerFixture) waitForGreeting(t *testing.T, s *Session) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(f.client.spokenTexts()) >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStartLiveActivatesSession(t *testing.T) {
	f := newManagerFixture(t)

	started, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusActive, started.Status)

	s, ok := f.manager.Get(f.entity.ID)
	require.True(t, ok)
	f.waitForGreeting(t, s)

	// the greeting reached the avatar but is not a user entry
	var transcript []entities.TranscriptEntry
	s.call(func() { transcript = s.dialogue.Transcript() })
	require.Len(t, transcript, 1)
	assert.Equal(t, entities.SpeakerAvatar, transcript[0].Speaker)

	stored, err := f.repo.FindByID(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusActive, stored.Status)
}

func TestStartLiveFailureMarksFailed(t *testing.T) {
	f := newManagerFixture(t)
	f.client.startSessionErr = errTestingFailure

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.Error(t, err)

	_, ok := f.manager.Get(f.entity.ID)
	assert.False(t, ok)

	stored, err := f.repo.FindByID(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusFailed, stored.Status)
}

func TestStartLiveRejectsNonCreatedSession(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)

	_, err = f.manager.StartLive(context.Background(), f.entity.ID)
	assert.ErrorIs(t, err, entities.ErrSessionNotCreated)
}

func TestEndLiveFinalizesOnce(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	ended, err := f.manager.EndLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, ended.Status)
	require.NotNil(t, ended.Report)
	assert.True(t, ended.Report.Fallback)
	require.Len(t, ended.Transcript, 1)

	// the room was torn down and the vendor session released
	assert.True(t, f.connector.room.disconnected)
	assert.Equal(t, 1, f.client.ended)

	again, err := f.manager.EndLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, again.Status)
	assert.Equal(t, 1, f.client.ended)
}

func TestEndLiveDoubleCallOnRunningSession(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	first, err := s.End(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, first.Status)

	second, err := s.End(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, second.Status)
	assert.Equal(t, 1, f.client.ended)
}

func TestEndLiveOnCreatedSessionProducesFallbackReport(t *testing.T) {
	f := newManagerFixture(t)

	ended, err := f.manager.EndLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, ended.Status)
	require.NotNil(t, ended.Report)
	assert.True(t, ended.Report.Fallback)
	assert.Equal(t, 60, ended.Report.OverallScore)
	assert.Empty(t, ended.Transcript)
}

func TestEndLiveUnknownSession(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.EndLive(context.Background(), uuid.New())
	assert.ErrorIs(t, err, entities.ErrSessionNotFound)
}

func TestFirstVideoTrackPublishesAvatarReady(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)

	sub := s.Events().Subscribe()
	defer s.Events().Unsubscribe(sub)

	f.connector.fireTrack(avatar.TrackKindVideo)
	f.connector.fireTrack(avatar.TrackKindVideo)

	ready := 0
	deadline := time.After(time.Second)
	settle := time.After(1500 * time.Millisecond)
	for {
		select {
		case e := <-sub:
			if e.Type == EventAvatarReady {
				ready++
			}
		case <-deadline:
			if ready == 0 {
				t.Fatal("no avatar_ready event")
			}
		case <-settle:
			assert.Equal(t, 1, ready)
			return
		}
	}
}

func TestDisconnectDoesNotEndSession(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	f.connector.fireDisconnect("network drop")

	require.Eventually(t, func() bool {
		disconnected := false
		s.call(func() { disconnected = s.transport.Disconnected() })
		return disconnected
	}, time.Second, 10*time.Millisecond)

	stored, err := f.repo.FindByID(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusActive, stored.Status)

	// ending still works and produces a report
	ended, err := f.manager.EndLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, ended.Status)
}

func TestTranscriptionResolvingAfterEndIsDiscarded(t *testing.T) {
	f := newManagerFixture(t)
	f.batch.gate = make(chan struct{})

	endedPersisting := make(chan struct{})
	releaseUpdate := make(chan struct{})
	var once sync.Once
	f.repo.onUpdate = func(s *entities.Session) {
		if s.Status != entities.SessionStatusEnded {
			return
		}
		once.Do(func() {
			close(endedPersisting)
			<-releaseUpdate
		})
	}

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	require.NoError(t, s.StartRecording(context.Background()))
	s.PushAudio(context.Background(), pcmFrame(1000, 320))

	endDone := make(chan struct{})
	go func() {
		defer close(endDone)
		_, _ = f.manager.EndLive(context.Background(), f.entity.ID)
	}()

	// the session flipped to ended but its loop is still draining; let
	// the pending transcription resolve now
	<-endedPersisting
	close(f.batch.gate)

	require.Eventually(t, func() bool {
		return f.batch.callCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)

	close(releaseUpdate)
	<-endDone

	// the late transcript never became a dialogue turn
	assert.Equal(t, 1, f.responder.callCount())

	stored, err := f.repo.FindByID(context.Background(), f.entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusEnded, stored.Status)
	require.Len(t, stored.Transcript, 1)
	assert.Equal(t, entities.SpeakerAvatar, stored.Transcript[0].Speaker)
}

func waitForEvent(t *testing.T, sub chan Event, want EventType) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case e := <-sub:
			if e.Type == want {
				return
			}
		case <-deadline:
			t.Fatalf("no %s event", want)
		}
	}
}

func TestInterruptWithNothingInFlight(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	sub := s.Events().Subscribe()
	defer s.Events().Unsubscribe(sub)

	require.NoError(t, s.Interrupt(context.Background()))
	waitForEvent(t, sub, EventInterrupted)

	require.Eventually(t, func() bool {
		return f.client.interruptCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// cutting the avatar off leaves the transcript alone
	var transcript []entities.TranscriptEntry
	s.call(func() { transcript = s.dialogue.Transcript() })
	require.Len(t, transcript, 1)
	assert.Equal(t, entities.SpeakerAvatar, transcript[0].Speaker)
}

func TestInterruptAfterSpokenReply(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	require.NoError(t, s.Say(context.Background(), "My name is Jane Doe."))
	require.Eventually(t, func() bool {
		return len(f.client.spokenTexts()) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, s.Interrupt(context.Background()))
	require.Eventually(t, func() bool {
		return f.client.interruptCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	var transcript []entities.TranscriptEntry
	s.call(func() { transcript = s.dialogue.Transcript() })
	require.Len(t, transcript, 3)
}

func TestInterruptAfterEndIsRejected(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.StartLive(context.Background(), f.entity.ID)
	require.NoError(t, err)
	s, _ := f.manager.Get(f.entity.ID)
	f.waitForGreeting(t, s)

	_, err = f.manager.EndLive(context.Background(), f.entity.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Interrupt(context.Background()), entities.ErrSessionNotLive)
	assert.Equal(t, 0, f.client.interruptCount())
}

// staleStatusRepo reports sessions as created regardless of the stored
// status, simulating a read that raced another instance's start.
type staleStatusRepo struct {
	*fakeSessionRepo
}

func (r *staleStatusRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Session, error) {
	s, err := r.fakeSessionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Status = entities.SessionStatusCreated
	return s, nil
}

func TestStartLiveLostStatusClaimBacksOff(t *testing.T) {
	repo := newFakeSessionRepo()
	client := &fakeAvatarClient{}
	responder := &fakeResponder{}
	analyzer := analysis.NewService(conversation.NewChain(zap.NewNop()), zap.NewNop())
	m := NewManager(&staleStatusRepo{repo}, fakeKnowledge{}, client, &fakeConnector{}, &fakeStreamFactory{}, &fakeBatch{}, &fakeArchiver{}, responder, analyzer, zap.NewNop())

	entity := entities.NewSession("Jane Doe", "civil", "Dexter_Lawyer_Sitting_public", "en", nil)
	require.NoError(t, repo.Create(context.Background(), entity))

	// another instance already took the session
	claimed, err := repo.UpdateStatus(context.Background(), entity.ID, []entities.SessionStatus{entities.SessionStatusCreated}, entities.SessionStatusActive)
	require.NoError(t, err)
	require.EqualValues(t, 1, claimed)

	_, err = m.StartLive(context.Background(), entity.ID)
	assert.ErrorIs(t, err, entities.ErrSessionNotCreated)

	_, ok := m.Get(entity.ID)
	assert.False(t, ok)
	assert.Equal(t, 0, client.started)

	stored, err := repo.FindByID(context.Background(), entity.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusActive, stored.Status)
}
