package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
)

// blockingResponder holds the turn open until released.
type blockingResponder struct {
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (r *blockingResponder) Respond(_ context.Context, _ string, _ []entities.TranscriptEntry, _, _ string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	<-r.release
	return "Understood.", nil
}

// fakeSpeaker counts deliveries.
type fakeSpeaker struct {
	mu     sync.Mutex
	texts  []string
	failed bool
}

func (s *fakeSpeaker) Speak(_ context.Context, text string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failed {
		return 0, errTestingFailure
	}
	s.texts = append(s.texts, text)
	return len(text) * 60, nil
}

func newTestDialogue(responder conversation.Responder, speaker Speaker, sink EventSink, exec *serialExec) *DialogueController {
	return NewDialogueController("s1", "protocol", "en", responder, speaker, sink, exec.post, zap.NewNop())
}

func TestDialogueTurnAppendsUserThenAvatar(t *testing.T) {
	exec := &serialExec{}
	responder := &fakeResponder{reply: "Where were you that evening?"}
	speaker := &fakeSpeaker{}
	d := newTestDialogue(responder, speaker, &recordSink{}, exec)

	require.NoError(t, d.Submit(context.Background(), "I want to make a statement."))

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return !d.busy
	}, time.Second, 10*time.Millisecond)

	entries := d.Transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, entities.SpeakerUser, entries[0].Speaker)
	assert.Equal(t, "I want to make a statement.", entries[0].Text)
	assert.Equal(t, entities.SpeakerAvatar, entries[1].Speaker)
	assert.Equal(t, "Where were you that evening?", entries[1].Text)

	// the responder saw the history as it was before this turn
	require.Len(t, responder.history, 1)
	assert.Empty(t, responder.history[0])

	require.Eventually(t, func() bool {
		speaker.mu.Lock()
		defer speaker.mu.Unlock()
		return len(speaker.texts) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestDialogueDropsInputWhileBusy(t *testing.T) {
	exec := &serialExec{}
	responder := &blockingResponder{release: make(chan struct{})}
	d := newTestDialogue(responder, &fakeSpeaker{}, &recordSink{}, exec)

	require.NoError(t, d.Submit(context.Background(), "first"))
	assert.ErrorIs(t, d.Submit(context.Background(), "second"), entities.ErrTurnInProgress)

	close(responder.release)

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return !d.busy
	}, time.Second, 10*time.Millisecond)

	// only the first turn made it into the transcript
	entries := d.Transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, 1, responder.calls)
}

func TestDialogueFailedTurnLeavesNoAvatarEntry(t *testing.T) {
	exec := &serialExec{}
	sink := &recordSink{}
	responder := &fakeResponder{err: errTestingFailure}
	d := newTestDialogue(responder, &fakeSpeaker{}, sink, exec)

	require.NoError(t, d.Submit(context.Background(), "hello?"))

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return !d.busy
	}, time.Second, 10*time.Millisecond)

	entries := d.Transcript()
	require.Len(t, entries, 1)
	assert.Equal(t, entities.SpeakerUser, entries[0].Speaker)
	require.Len(t, sink.ofType(EventError), 1)

	// the controller recovered and accepts the next turn
	responder.err = nil
	require.NoError(t, d.Submit(context.Background(), "try again"))
}

func TestDialogueGreetingIsNotAUserEntry(t *testing.T) {
	exec := &serialExec{}
	responder := &fakeResponder{reply: "Good morning. Please state your name."}
	d := newTestDialogue(responder, &fakeSpeaker{}, &recordSink{}, exec)

	d.Greet(context.Background())

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return len(d.Transcript()) == 1
	}, time.Second, 10*time.Millisecond)

	entries := d.Transcript()
	assert.Equal(t, entities.SpeakerAvatar, entries[0].Speaker)
	assert.Equal(t, "Hello", responder.lastMsg)
}

func TestDialogueSpeakFailureKeepsEntry(t *testing.T) {
	exec := &serialExec{}
	responder := &fakeResponder{reply: "Please continue."}
	speaker := &fakeSpeaker{failed: true}
	d := newTestDialogue(responder, speaker, &recordSink{}, exec)

	require.NoError(t, d.Submit(context.Background(), "the car was blue"))

	require.Eventually(t, func() bool {
		exec.mu.Lock()
		defer exec.mu.Unlock()
		return len(d.Transcript()) == 2
	}, time.Second, 10*time.Millisecond)

	assert.Equal(t, "Please continue.", d.Transcript()[1].Text)
}
