package live

import (
	"context"

	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/conversation"
)

// Speaker is the tts side of a turn, narrowed from the transport.
type Speaker interface {
	Speak(ctx context.Context, text string) (int, error)
}

// DialogueController runs the user/avatar turn exchange for one session.
// It is single-flight: while a reply is in progress, new input is dropped.
// All state lives on the session loop; blocking work runs in goroutines
// that post completions back.
type DialogueController struct {
	responder conversation.Responder
	speaker   Speaker
	sink      EventSink
	post      func(func())
	logger    *zap.Logger

	sessionID string
	kbContent string
	language  string

	busy       bool
	transcript []entities.TranscriptEntry
}

func NewDialogueController(sessionID, kbContent, language string, responder conversation.Responder, speaker Speaker, sink EventSink, post func(func()), logger *zap.Logger) *DialogueController {
	return &DialogueController{
		responder: responder,
		speaker:   speaker,
		sink:      sink,
		post:      post,
		logger:    logger,
		sessionID: sessionID,
		kbContent: kbContent,
		language:  language,
	}
}

// Transcript returns the accumulated entries in order.
func (d *DialogueController) Transcript() []entities.TranscriptEntry {
	out := make([]entities.TranscriptEntry, len(d.transcript))
	copy(out, d.transcript)
	return out
}

// Busy reports whether a turn is in flight.
func (d *DialogueController) Busy() bool {
	return d.busy
}

// Submit runs one user turn: the entry is recorded immediately, the reply
// comes later via the loop. Input during an in-flight turn is dropped.
func (d *DialogueController) Submit(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}
	if d.busy {
		if d.logger != nil {
			d.logger.Warn("⚠️ Turn already in progress, dropping input",
				zap.String("session_id", d.sessionID))
		}
		return entities.ErrTurnInProgress
	}

	history := d.Transcript()
	d.transcript = append(d.transcript, entities.NewTranscriptEntry(entities.SpeakerUser, text))
	d.busy = true

	d.runTurn(ctx, text, history)
	return nil
}

// Greet triggers the avatar's opening line. The prompt is synthesized and
// never recorded as a user entry.
func (d *DialogueController) Greet(ctx context.Context) {
	if d.busy {
		return
	}
	d.busy = true
	d.runTurn(ctx, "Hello", d.Transcript())
}

func (d *DialogueController) runTurn(ctx context.Context, message string, history []entities.TranscriptEntry) {
	go func() {
		reply, err := d.responder.Respond(ctx, message, history, d.kbContent, d.language)
		d.post(func() {
			d.busy = false
			if err != nil {
				if d.logger != nil {
					d.logger.Error("❌ Failed to generate reply",
						zap.String("session_id", d.sessionID),
						zap.Error(err))
				}
				if d.sink != nil {
					d.sink.Publish(Event{Type: EventError, Payload: map[string]interface{}{
						"message": "failed to generate a response",
					}})
				}
				return
			}
			d.deliverReply(ctx, reply)
		})
	}()
}

// deliverReply records the avatar entry, then hands the text to the
// speaker. The entry stays even when speaking fails.
func (d *DialogueController) deliverReply(ctx context.Context, reply string) {
	d.transcript = append(d.transcript, entities.NewTranscriptEntry(entities.SpeakerAvatar, reply))

	if d.sink != nil {
		d.sink.Publish(Event{Type: EventAvatarReply, Payload: map[string]interface{}{
			"text": reply,
		}})
	}

	speaker := d.speaker
	if speaker == nil {
		return
	}
	go func() {
		if _, err := speaker.Speak(ctx, reply); err != nil && d.logger != nil {
			d.logger.Warn("⚠️ Failed to deliver speech",
				zap.String("session_id", d.sessionID),
				zap.Error(err))
		}
	}()
}
