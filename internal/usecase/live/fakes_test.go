package live

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/external/avatar"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/stt"
)

// fakeSessionRepo is an in-memory SessionRepository. Tests can set
// onUpdate to observe or delay persistence.
type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entities.Session
	onUpdate func(*entities.Session)
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entities.Session)}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *entities.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, entities.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) List(_ context.Context, _, _ int) ([]*entities.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entities.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSessionRepo) Update(_ context.Context, s *entities.Session) error {
	r.mu.Lock()
	hook := r.onUpdate
	r.mu.Unlock()
	if hook != nil {
		hook(s)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) UpdateStatus(_ context.Context, id uuid.UUID, from []entities.SessionStatus, to entities.SessionStatus) (int64, error) {
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

func (r *fakeSessionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

// fakeAvatarClient records calls and can fail any step. When speakGate is
// set, Speak signals speakWaiting and blocks until the gate closes.
type fakeAvatarClient struct {
	mu sync.Mutex

	startSessionErr error
	streamingErr    error
	speakErr        error

	speakGate    chan struct{}
	speakWaiting chan struct{}

	started     int
	streaming   int
	interrupted int
	ended       int
	spoken      []string
}

func (c *fakeAvatarClient) StartSession(_ context.Context, _, _ string) (*avatar.Credentials, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.startSessionErr != nil {
		return nil, c.startSessionErr
	}
	c.started++
	return &avatar.Credentials{Handle: "h-1", URL: "wss://media.test", AccessToken: "tok"}, nil
}

func (c *fakeAvatarClient) StartStreaming(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.streamingErr != nil {
		return c.streamingErr
	}
	c.streaming++
	return nil
}

func (c *fakeAvatarClient) Speak(_ context.Context, handle, text string) (int, error) {
	c.mu.Lock()
	gate := c.speakGate
	waiting := c.speakWaiting
	c.mu.Unlock()
	if gate != nil {
		if waiting != nil {
			select {
			case waiting <- struct{}{}:
			default:
			}
		}
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.speakErr != nil {
		return 0, c.speakErr
	}
	if handle == "" {
		return 0, errTestingFailure
	}
	c.spoken = append(c.spoken, text)
	return len(text) * 60, nil
}

func (c *fakeAvatarClient) Interrupt(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interrupted++
	return nil
}

func (c *fakeAvatarClient) EndSession(_ context.Context, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ended++
	return nil
}

func (c *fakeAvatarClient) interruptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interrupted
}

func (c *fakeAvatarClient) spokenTexts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.spoken))
	copy(out, c.spoken)
	return out
}

// fakeRoom and fakeConnector stand in for the media SDK.
type fakeRoom struct {
	mu           sync.Mutex
	joinErr      error
	joined       bool
	disconnected bool
}

func (r *fakeRoom) Join(_, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.joinErr != nil {
		return r.joinErr
	}
	r.joined = true
	return nil
}

func (r *fakeRoom) Disconnect() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = true
}

type fakeConnector struct {
	mu     sync.Mutex
	room   *fakeRoom
	events avatar.RoomEvents
}

func (c *fakeConnector) Prepare(events avatar.RoomEvents) avatar.PreparedRoom {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = events
	if c.room == nil {
		c.room = &fakeRoom{}
	}
	return c.room
}

func (c *fakeConnector) fireTrack(kind avatar.TrackKind) {
	c.mu.Lock()
	fn := c.events.OnTrackAttached
	c.mu.Unlock()
	if fn != nil {
		fn(kind)
	}
}

func (c *fakeConnector) fireDisconnect(reason string) {
	c.mu.Lock()
	fn := c.events.OnDisconnected
	c.mu.Unlock()
	if fn != nil {
		fn(reason)
	}
}

// fakeResponder replies with a fixed line or an error.
type fakeResponder struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	lastMsg string
	history [][]entities.TranscriptEntry
}

func (r *fakeResponder) Respond(_ context.Context, message string, history []entities.TranscriptEntry, _, _ string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.lastMsg = message
	snapshot := make([]entities.TranscriptEntry, len(history))
	copy(snapshot, history)
	r.history = append(r.history, snapshot)
	if r.err != nil {
		return "", r.err
	}
	if r.reply == "" {
		return "Noted. Please continue.", nil
	}
	return r.reply, nil
}

func (r *fakeResponder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// fakeStream is a scripted streaming recognizer.
type fakeStream struct {
	handlers stt.StreamingHandlers
	startErr error
	stopped  bool
}

func (s *fakeStream) Start(_ context.Context) error {
	return s.startErr
}

func (s *fakeStream) Send(_ context.Context, _ []byte) error { return nil }

func (s *fakeStream) Stop(_ context.Context) error {
	s.stopped = true
	return nil
}

type fakeStreamFactory struct {
	available bool
	stream    *fakeStream
}

func (f *fakeStreamFactory) Available() bool { return f.available }

func (f *fakeStreamFactory) NewStream(handlers stt.StreamingHandlers) stt.StreamingRecognizer {
	if f.stream == nil {
		f.stream = &fakeStream{}
	}
	f.stream.handlers = handlers
	return f.stream
}

// fakeBatch returns a canned transcription. When gate is set, Transcribe
// blocks until it closes.
type fakeBatch struct {
	mu    sync.Mutex
	text  string
	err   error
	gate  chan struct{}
	calls int
	blobs [][]byte
}

func (b *fakeBatch) Transcribe(_ context.Context, audio []byte, _ string) (string, error) {
	b.mu.Lock()
	gate := b.gate
	b.mu.Unlock()
	if gate != nil {
		<-gate
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	b.blobs = append(b.blobs, audio)
	if b.err != nil {
		return "", b.err
	}
	return b.text, nil
}

func (b *fakeBatch) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}

// fakeArchiver records uploaded blobs.
type fakeArchiver struct {
	mu      sync.Mutex
	uploads int
}

func (a *fakeArchiver) UploadAudio(_ context.Context, sessionID, recordingID string, _ []byte) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.uploads++
	return "audio/" + sessionID + "/" + recordingID + ".pcm", nil
}

func (a *fakeArchiver) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.uploads
}

// errTestingFailure is a generic failure for scripting fakes.
var errTestingFailure = errors.New("induced failure")
