package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

// StreamingHandlers receive transcription results as they arrive.
type StreamingHandlers struct {
	// OnPartial fires for interim hypotheses
	OnPartial func(text string)

	// OnFinal fires once per finalized utterance
	OnFinal func(text string)

	// OnError fires on stream failures
	OnError func(err error)
}

// StreamingRecognizer is one live recognition stream.
type StreamingRecognizer interface {
	Start(ctx context.Context) error
	Send(ctx context.Context, frame []byte) error
	Stop(ctx context.Context) error
}

// StreamingFactory builds recognition streams.
type StreamingFactory interface {
	// Available reports whether the realtime path is configured
	Available() bool

	// NewStream builds a stream delivering results to the handlers
	NewStream(handlers StreamingHandlers) StreamingRecognizer
}

// BatchTranscriber transcribes a complete audio blob. The locale is a BCP 47
// tag such as "en-US"; empty means provider default.
type BatchTranscriber interface {
	Transcribe(ctx context.Context, audio []byte, locale string) (string, error)
}

// AssemblyAI implements both recognition paths on the AssemblyAI API.
type AssemblyAI struct {
	apiKey     string
	sampleRate int
}

// NewAssemblyAI creates the speech client from config.
func NewAssemblyAI(cfg *config.SpeechConfig) *AssemblyAI {
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}
	return &AssemblyAI{
		apiKey:     cfg.AssemblyAIKey,
		sampleRate: sampleRate,
	}
}

// Available reports whether the realtime path is configured
func (a *AssemblyAI) Available() bool {
	return a.apiKey != ""
}

// NewStream builds a realtime recognition stream
func (a *AssemblyAI) NewStream(handlers StreamingHandlers) StreamingRecognizer {
	transcriber := &aai.RealTimeTranscriber{
		OnPartialTranscript: func(t aai.PartialTranscript) {
			if handlers.OnPartial != nil && t.Text != "" {
				handlers.OnPartial(t.Text)
			}
		},
		OnFinalTranscript: func(t aai.FinalTranscript) {
			if handlers.OnFinal != nil && t.Text != "" {
				handlers.OnFinal(t.Text)
			}
		},
		OnError: func(err error) {
			if handlers.OnError != nil {
				handlers.OnError(err)
			}
		},
	}

	client := aai.NewRealTimeClientWithOptions(
		aai.WithRealTimeAPIKey(a.apiKey),
		aai.WithRealTimeSampleRate(a.sampleRate),
		aai.WithRealTimeTranscriber(transcriber),
	)

	return &realtimeStream{client: client}
}

type realtimeStream struct {
	client *aai.RealTimeClient
}

func (s *realtimeStream) Start(ctx context.Context) error {
	if err := s.client.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect realtime transcriber: %w", err)
	}
	return nil
}

func (s *realtimeStream) Send(ctx context.Context, frame []byte) error {
	if err := s.client.Send(ctx, frame); err != nil {
		return fmt.Errorf("failed to send audio frame: %w", err)
	}
	return nil
}

func (s *realtimeStream) Stop(ctx context.Context) error {
	// Wait for session termination so trailing finals are delivered
	if err := s.client.Disconnect(ctx, true); err != nil {
		return fmt.Errorf("failed to disconnect realtime transcriber: %w", err)
	}
	return nil
}

// Transcribe submits a complete blob and waits for the result.
func (a *AssemblyAI) Transcribe(ctx context.Context, audio []byte, locale string) (string, error) {
	if a.apiKey == "" {
		return "", fmt.Errorf("assemblyai client not configured")
	}

	var params *aai.TranscriptOptionalParams
	if code := languageCode(locale); code != "" {
		params = &aai.TranscriptOptionalParams{
			LanguageCode: aai.TranscriptLanguageCode(code),
		}
	}

	client := aai.NewClient(a.apiKey)
	transcript, err := client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio blob: %w", err)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}

// providerCodes maps BCP 47 locales to AssemblyAI language codes.
var providerCodes = map[string]string{
	"en-US": "en_us",
	"en-GB": "en_uk",
	"ms-MY": "ms",
	"zh-CN": "zh",
	"ta-IN": "ta",
	"hi-IN": "hi",
}

// languageCode converts a BCP 47 locale to the provider's language code.
// Unknown locales fall back to the lowercased primary subtag; empty input
// returns empty.
func languageCode(locale string) string {
	if locale == "" {
		return ""
	}
	if code, ok := providerCodes[locale]; ok {
		return code
	}
	primary := locale
	if i := strings.IndexByte(locale, '-'); i > 0 {
		primary = locale[:i]
	}
	return strings.ToLower(primary)
}
