package live

import "sync"

// EventType names the events streamed to the client over the live channel.
type EventType string

const (
	EventAvatarReady         EventType = "avatar_ready"
	EventPartialTranscript   EventType = "partial_transcript"
	EventFinalTranscript     EventType = "final_transcript"
	EventAvatarReply         EventType = "avatar_reply"
	EventAudioLevel          EventType = "audio_level"
	EventDisconnected        EventType = "disconnected"
	EventInterrupted         EventType = "interrupted"
	EventTranscriptionFailed EventType = "transcription_failed"
	EventSessionEnded        EventType = "session_ended"
	EventError               EventType = "error"
)

// Event is one message on the live channel downlink.
type Event struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// EventSink receives session events.
type EventSink interface {
	Publish(event Event)
}

// Broadcaster fans events out to any number of subscribers. Slow
// subscribers drop events rather than blocking the session loop.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber channel.
func (b *Broadcaster) Subscribe() chan Event {
	ch := make(chan Event, 64)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (b *Broadcaster) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber without blocking.
func (b *Broadcaster) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}
