package live

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/repositories"
)

// Session is the live half of a training session. Every piece of mutable
// state is owned by a single loop goroutine; callers and SDK callbacks
// reach it through the command mailbox.
type Session struct {
	id        string
	entity    *entities.Session
	kbContent string

	transport *TransportController
	capture   *CaptureController
	dialogue  *DialogueController
	finalizer *Finalizer
	events    *Broadcaster
	sessions  repositories.SessionRepository
	logger    *zap.Logger

	cmds     chan func()
	done     chan struct{}
	stopOnce sync.Once

	// loop-owned state
	active  bool
	ended   bool
	elapsed int
}

// newSession builds the shell first so the controllers can capture post;
// the caller wires transport, capture and dialogue before starting run.
func newSession(entity *entities.Session, kbContent string, finalizer *Finalizer, events *Broadcaster, sessions repositories.SessionRepository, logger *zap.Logger) *Session {
	return &Session{
		id:        entity.ID.String(),
		entity:    entity,
		kbContent: kbContent,
		finalizer: finalizer,
		events:    events,
		sessions:  sessions,
		logger:    logger,
		cmds:      make(chan func(), 64),
		done:      make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Events exposes the downlink fan-out for channel subscribers.
func (s *Session) Events() *Broadcaster { return s.events }

// post schedules fn on the loop. After shutdown the command is discarded,
// which is what late SDK callbacks want.
func (s *Session) post(fn func()) {
	select {
	case s.cmds <- fn:
	case <-s.done:
	}
}

// call runs fn on the loop and waits for it. It reports false when the
// loop already stopped and fn never ran.
func (s *Session) call(fn func()) bool {
	wait := make(chan struct{})
	s.post(func() {
		fn()
		close(wait)
	})
	select {
	case <-wait:
		return true
	case <-s.done:
		select {
		case <-wait:
			return true
		default:
			return false
		}
	}
}

// run is the session loop. The ticker is the authoritative duration
// clock; it only advances while the session is live.
func (s *Session) run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case fn := <-s.cmds:
			fn()
		case <-ticker.C:
			if s.active && !s.ended {
				s.elapsed++
			}
		case <-s.done:
			return
		}
	}
}

// start brings the transport up and greets. Ordering matters: the capture
// path was picked at construction, credentials and media come up here,
// and the greeting only fires once the room handshake succeeded.
func (s *Session) start(ctx context.Context) error {
	if err := s.transport.Start(ctx, s.entity.AvatarID, s.entity.Language); err != nil {
		return err
	}

	s.call(func() {
		s.active = true
		s.dialogue.Greet(ctx)
	})

	if s.logger != nil {
		s.logger.Info("🚀 Live session started",
			zap.String("session_id", s.id),
			zap.String("avatar_id", s.entity.AvatarID),
			zap.Bool("streaming_capture", s.capture.StreamingPath()))
	}
	return nil
}

// StartRecording begins speech capture.
func (s *Session) StartRecording(ctx context.Context) error {
	err := entities.ErrSessionNotLive
	s.call(func() {
		if s.ended {
			return
		}
		err = s.capture.StartRecording(ctx)
	})
	return err
}

// StopRecording ends the current recording, if any.
func (s *Session) StopRecording(ctx context.Context) {
	s.call(func() {
		s.capture.StopRecording(ctx)
	})
}

// PushAudio feeds captured PCM16 audio into the session.
func (s *Session) PushAudio(ctx context.Context, frame []byte) {
	buf := make([]byte, len(frame))
	copy(buf, frame)
	s.post(func() {
		if s.ended {
			return
		}
		s.capture.PushAudio(ctx, buf)
	})
}

// Say submits typed user input directly to the dialogue.
func (s *Session) Say(ctx context.Context, text string) error {
	err := entities.ErrSessionNotLive
	s.call(func() {
		if s.ended {
			return
		}
		err = s.dialogue.Submit(ctx, text)
	})
	return err
}

// Interrupt cuts off the avatar mid-utterance. The vendor call is best
// effort and runs off the loop; failures are logged, not surfaced.
func (s *Session) Interrupt(ctx context.Context) error {
	err := entities.ErrSessionNotLive
	s.call(func() {
		if s.ended {
			return
		}
		err = nil
		if s.events != nil {
			s.events.Publish(Event{Type: EventInterrupted})
		}
	})
	if err != nil {
		return err
	}

	go func() {
		if ierr := s.transport.Interrupt(ctx); ierr != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to interrupt avatar",
				zap.String("session_id", s.id),
				zap.Error(ierr))
		}
	}()
	return nil
}

// End tears the session down and finalizes it. The first caller wins;
// later calls observe the already-ended record.
func (s *Session) End(ctx context.Context) (*entities.Session, error) {
	first := false
	var transcript []entities.TranscriptEntry
	var duration int

	s.call(func() {
		if !s.ended {
			s.ended = true
			first = true
			s.capture.StopRecording(ctx)
			s.capture.Discard()
			transcript = s.dialogue.Transcript()
			duration = s.elapsed
		}
	})

	if !first {
		return s.sessions.FindByID(ctx, s.entity.ID)
	}

	s.transport.Stop(ctx)

	final, err := s.finalizer.Finalize(ctx, s.entity, transcript, duration, s.kbContent)
	if err != nil {
		s.shutdown()
		return nil, err
	}

	if s.events != nil {
		s.events.Publish(Event{Type: EventSessionEnded, Payload: map[string]interface{}{
			"duration_seconds": duration,
		}})
	}
	s.shutdown()
	return final, nil
}

func (s *Session) shutdown() {
	s.stopOnce.Do(func() { close(s.done) })
}
