package live

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/external/avatar"
)

// TransportController owns the avatar media leg of one live session: the
// vendor session handle and the media room connection. Track and disconnect
// state runs on the session loop via post; the credentials and room handle
// are guarded by a mutex because Speak and Stop arrive on caller and
// delivery goroutines.
type TransportController struct {
	client avatar.Client
	rooms  avatar.RoomConnector
	sink   EventSink
	post   func(func())
	logger *zap.Logger

	sessionID string

	mu    sync.Mutex
	creds *avatar.Credentials
	room  avatar.PreparedRoom

	// loop-owned
	videoReady   bool
	audioReady   bool
	disconnected bool
}

// NewTransportController wires the transport for one session.
func NewTransportController(sessionID string, client avatar.Client, rooms avatar.RoomConnector, sink EventSink, post func(func()), logger *zap.Logger) *TransportController {
	return &TransportController{
		client:    client,
		rooms:     rooms,
		sink:      sink,
		post:      post,
		logger:    logger,
		sessionID: sessionID,
	}
}

// Start runs the startup sequence in order: credentials, pre-negotiation,
// remote stream start, media handshake. Any failure aborts the whole
// sequence.
func (t *TransportController) Start(ctx context.Context, avatarID, language string) error {
	creds, err := t.client.StartSession(ctx, avatarID, language)
	if err != nil {
		return fmt.Errorf("avatar credentials: %w", err)
	}

	room := t.rooms.Prepare(avatar.RoomEvents{
		OnTrackAttached: t.handleTrackAttached,
		OnDisconnected:  t.handleDisconnected,
	})

	if err := t.client.StartStreaming(ctx, creds.Handle); err != nil {
		return fmt.Errorf("remote stream start: %w", err)
	}

	if err := room.Join(creds.URL, creds.AccessToken); err != nil {
		return fmt.Errorf("media handshake: %w", err)
	}

	t.mu.Lock()
	t.creds = creds
	t.room = room
	t.mu.Unlock()

	if t.logger != nil {
		t.logger.Info("🎥 Avatar transport started",
			zap.String("session_id", t.sessionID),
			zap.String("handle", creds.Handle))
	}
	return nil
}

// handleTrackAttached runs on an SDK goroutine; the mutation is posted onto
// the session loop. Duplicate attaches of a kind are ignored.
func (t *TransportController) handleTrackAttached(kind avatar.TrackKind) {
	t.post(func() {
		switch kind {
		case avatar.TrackKindVideo:
			if t.videoReady {
				return
			}
			t.videoReady = true
			if t.sink != nil {
				t.sink.Publish(Event{Type: EventAvatarReady})
			}
		case avatar.TrackKindAudio:
			if t.audioReady {
				return
			}
			t.audioReady = true
		}
		if t.logger != nil {
			t.logger.Info("📡 Avatar track attached",
				zap.String("session_id", t.sessionID),
				zap.String("kind", string(kind)))
		}
	})
}

// handleDisconnected records the disconnected sub-state. The session stays
// active and no reconnection is attempted.
func (t *TransportController) handleDisconnected(reason string) {
	t.post(func() {
		if t.disconnected {
			return
		}
		t.disconnected = true
		if t.logger != nil {
			t.logger.Warn("🔌 Media room disconnected",
				zap.String("session_id", t.sessionID),
				zap.String("reason", reason))
		}
		if t.sink != nil {
			t.sink.Publish(Event{Type: EventDisconnected, Payload: map[string]interface{}{"reason": reason}})
		}
	})
}

// Disconnected reports the transport sub-state.
func (t *TransportController) Disconnected() bool {
	return t.disconnected
}

// handle snapshots the vendor session handle, or fails when the transport
// is not started or already stopped.
func (t *TransportController) handle() (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.creds == nil {
		return "", fmt.Errorf("transport not started")
	}
	return t.creds.Handle, nil
}

// Speak forwards an utterance to the avatar and returns a duration hint in
// milliseconds. Speak still goes out while the room is disconnected. The
// handle is snapshotted up front, so a concurrent Stop cannot pull it out
// from under the network call.
func (t *TransportController) Speak(ctx context.Context, text string) (int, error) {
	handle, err := t.handle()
	if err != nil {
		return 0, err
	}
	return t.client.Speak(ctx, handle, text)
}

// Interrupt cuts the current utterance, best effort.
func (t *TransportController) Interrupt(ctx context.Context) error {
	handle, err := t.handle()
	if err != nil {
		return err
	}
	return t.client.Interrupt(ctx, handle)
}

// Stop tears the transport down: leave the room, then release the vendor
// session. Each step is best effort. Later Speak and Interrupt calls fail
// the nil-handle check instead of reaching the vendor.
func (t *TransportController) Stop(ctx context.Context) {
	t.mu.Lock()
	creds := t.creds
	room := t.room
	t.creds = nil
	t.room = nil
	t.mu.Unlock()

	if room != nil {
		room.Disconnect()
	}
	if creds != nil {
		if err := t.client.EndSession(ctx, creds.Handle); err != nil && t.logger != nil {
			t.logger.Warn("⚠️ Failed to end avatar session",
				zap.String("session_id", t.sessionID),
				zap.Error(err))
		}
	}
}
