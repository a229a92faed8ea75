package live

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/infrastructure/stt"
)

// levelInterval throttles audio level events to roughly 60 per second.
const levelInterval = 16 * time.Millisecond

// AudioArchiver stores recorded blobs.
type AudioArchiver interface {
	UploadAudio(ctx context.Context, sessionID, recordingID string, data []byte) (string, error)
}

// CaptureController owns speech capture for one live session. The path is
// picked once at startup: a streaming recognizer when configured, otherwise
// buffering with batch transcription on stop. All state mutations run on
// the session loop via post.
type CaptureController struct {
	streams  stt.StreamingFactory
	batch    stt.BatchTranscriber
	archiver AudioArchiver
	sink     EventSink
	post     func(func())
	logger   *zap.Logger

	sessionID string
	locale    string
	streaming bool

	recording   bool
	recordingID string
	stream      stt.StreamingRecognizer
	buffer      bytes.Buffer
	finals      []string
	forwarded   bool
	lastLevelAt time.Time

	// onFinal receives at most one transcript per recording
	onFinal func(text string)
}

// NewCaptureController wires capture for one session and picks the path.
func NewCaptureController(sessionID, locale string, streams stt.StreamingFactory, batch stt.BatchTranscriber, archiver AudioArchiver, sink EventSink, post func(func()), logger *zap.Logger) *CaptureController {
	c := &CaptureController{
		streams:   streams,
		batch:     batch,
		archiver:  archiver,
		sink:      sink,
		post:      post,
		logger:    logger,
		sessionID: sessionID,
		locale:    locale,
	}
	c.streaming = streams != nil && streams.Available()
	return c
}

// StreamingPath reports which capture path was picked at startup.
func (c *CaptureController) StreamingPath() bool {
	return c.streaming
}

// SetFinalHandler registers the transcript consumer.
func (c *CaptureController) SetFinalHandler(fn func(text string)) {
	c.onFinal = fn
}

// StartRecording begins a recording. A second start while recording is
// rejected.
func (c *CaptureController) StartRecording(ctx context.Context) error {
	if c.recording {
		return entities.ErrAlreadyRecording
	}

	c.recording = true
	c.recordingID = uuid.NewString()
	c.finals = nil
	c.forwarded = false
	c.buffer.Reset()

	if c.streaming {
		stream := c.streams.NewStream(stt.StreamingHandlers{
			OnPartial: c.handlePartial,
			OnFinal:   c.handleStreamFinal,
			OnError:   c.handleStreamError,
		})
		c.stream = stream

		// the recognizer connect blocks, so it runs off the loop; a
		// failed connect rolls the recording back
		recordingID := c.recordingID
		go func() {
			if err := stream.Start(ctx); err != nil {
				c.post(func() { c.abortRecording(recordingID, err) })
			}
		}()
	}

	if c.logger != nil {
		c.logger.Info("🎙️ Recording started",
			zap.String("session_id", c.sessionID),
			zap.String("recording_id", c.recordingID),
			zap.Bool("streaming", c.streaming))
	}
	return nil
}

// PushAudio feeds one PCM16 frame. Frames outside a recording only drive
// the level meter.
func (c *CaptureController) PushAudio(ctx context.Context, frame []byte) {
	c.publishLevel(frame)

	if !c.recording {
		return
	}

	if c.streaming && c.stream != nil {
		stream := c.stream
		go func() {
			if err := stream.Send(ctx, frame); err != nil && c.logger != nil {
				c.logger.Warn("⚠️ Failed to send audio frame", zap.Error(err))
			}
		}()
		return
	}

	c.buffer.Write(frame)
}

// StopRecording finishes the recording and, eventually, forwards a single
// final transcript. Stop while not recording is a no-op.
func (c *CaptureController) StopRecording(ctx context.Context) {
	if !c.recording {
		return
	}
	c.recording = false
	recordingID := c.recordingID

	if c.logger != nil {
		c.logger.Info("🛑 Recording stopped",
			zap.String("session_id", c.sessionID),
			zap.String("recording_id", recordingID))
	}

	if c.streaming {
		stream := c.stream
		c.stream = nil
		go func() {
			if stream != nil {
				if err := stream.Stop(ctx); err != nil && c.logger != nil {
					c.logger.Warn("⚠️ Failed to stop recognizer", zap.Error(err))
				}
			}
			c.post(func() { c.forwardFinal(joinFinals(c.finals)) })
		}()
		return
	}

	blob := make([]byte, c.buffer.Len())
	copy(blob, c.buffer.Bytes())
	c.buffer.Reset()

	go func() {
		if c.archiver != nil && len(blob) > 0 {
			if _, err := c.archiver.UploadAudio(ctx, c.sessionID, recordingID, blob); err != nil && c.logger != nil {
				c.logger.Warn("⚠️ Failed to archive recording", zap.Error(err))
			}
		}

		if len(blob) == 0 {
			c.post(func() { c.forwardFinal("") })
			return
		}

		text, err := c.batch.Transcribe(ctx, blob, c.locale)
		c.post(func() {
			if err != nil {
				if c.logger != nil {
					c.logger.Warn("⚠️ Batch transcription failed", zap.Error(err))
				}
				if c.sink != nil {
					c.sink.Publish(Event{Type: EventTranscriptionFailed})
				}
				return
			}
			c.forwardFinal(text)
		})
	}()
}

// Discard suppresses any transcript still resolving for the current
// recording. The session calls it at end, when the transcript is frozen.
func (c *CaptureController) Discard() {
	c.forwarded = true
}

// abortRecording rolls back a recording whose recognizer never came up.
// A stop or restart may have happened in the meantime, so the id is
// re-checked first.
func (c *CaptureController) abortRecording(recordingID string, cause error) {
	if !c.recording || c.recordingID != recordingID {
		return
	}
	c.recording = false
	c.stream = nil

	if c.logger != nil {
		c.logger.Warn("⚠️ Recognizer connect failed, recording aborted",
			zap.String("session_id", c.sessionID),
			zap.String("recording_id", recordingID),
			zap.Error(cause))
	}
	if c.sink != nil {
		c.sink.Publish(Event{Type: EventError, Payload: map[string]interface{}{
			"message": "speech recognition unavailable",
		}})
	}
}

// forwardFinal delivers the transcript once per recording. Empty text is
// dropped.
func (c *CaptureController) forwardFinal(text string) {
	if c.forwarded || text == "" {
		return
	}
	c.forwarded = true

	if c.sink != nil {
		c.sink.Publish(Event{Type: EventFinalTranscript, Payload: map[string]interface{}{"text": text}})
	}
	if c.onFinal != nil {
		c.onFinal(text)
	}
}

// handlePartial surfaces interim hypotheses as they arrive.
func (c *CaptureController) handlePartial(text string) {
	c.post(func() {
		if !c.recording || c.sink == nil {
			return
		}
		c.sink.Publish(Event{Type: EventPartialTranscript, Payload: map[string]interface{}{"text": text}})
	})
}

// handleStreamFinal accumulates utterance finals; they are joined and
// forwarded once when the recording stops.
func (c *CaptureController) handleStreamFinal(text string) {
	c.post(func() {
		c.finals = append(c.finals, text)
	})
}

func (c *CaptureController) handleStreamError(err error) {
	c.post(func() {
		if c.logger != nil {
			c.logger.Warn("⚠️ Recognition stream error",
				zap.String("session_id", c.sessionID),
				zap.Error(err))
		}
	})
}

// publishLevel pushes a throttled audio level sample in [0,100].
func (c *CaptureController) publishLevel(frame []byte) {
	if c.sink == nil || len(frame) < 2 {
		return
	}
	now := time.Now()
	if now.Sub(c.lastLevelAt) < levelInterval {
		return
	}
	c.lastLevelAt = now

	c.sink.Publish(Event{Type: EventAudioLevel, Payload: map[string]interface{}{
		"level": AudioLevel(frame),
	}})
}

// AudioLevel maps a PCM16 little-endian frame to a meter value in [0,100].
func AudioLevel(frame []byte) int {
	samples := len(frame) / 2
	if samples == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < samples; i++ {
		s := int16(binary.LittleEndian.Uint16(frame[i*2:]))
		v := float64(s)
		sum += v * v
	}

	rms := math.Sqrt(sum / float64(samples))
	level := int(rms / 32768.0 * 100 * 4)
	if level > 100 {
		level = 100
	}
	return level
}

func joinFinals(finals []string) string {
	out := ""
	for _, f := range finals {
		if f == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += f
	}
	return out
}
