package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/livekit/protocol/auth"

	"github.com/LuqmanKt98/testify-ai-avatar/pkg/config"
)

// Credentials is what the streaming avatar vendor hands back for one live
// avatar session: a session handle plus the media room coordinates.
type Credentials struct {
	Handle      string
	URL         string
	AccessToken string
}

// Client wraps the streaming avatar control API.
type Client interface {
	// StartSession allocates a new avatar session and returns its credentials
	StartSession(ctx context.Context, avatarID, language string) (*Credentials, error)

	// StartStreaming asks the vendor to begin publishing media into the room
	StartStreaming(ctx context.Context, handle string) error

	// Speak makes the avatar voice the text; returns a duration hint in ms
	Speak(ctx context.Context, handle, text string) (int, error)

	// Interrupt cuts off the current utterance, best effort
	Interrupt(ctx context.Context, handle string) error

	// EndSession releases the avatar session
	EndSession(ctx context.Context, handle string) error
}

// NewClient creates an avatar API client. With useMock set it returns a stub
// that mints tokens for a local media server instead of calling the vendor.
func NewClient(cfg *config.Config) Client {
	if cfg.Avatar.UseMock {
		return &mockClient{
			url:       cfg.LiveKit.URL,
			apiKey:    cfg.LiveKit.APIKey,
			apiSecret: cfg.LiveKit.APISecret,
		}
	}

	timeout := cfg.Avatar.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &realClient{
		baseURL: cfg.Avatar.BaseURL,
		apiKey:  cfg.Avatar.APIKey,
		quality: cfg.Avatar.Quality,
		client:  &http.Client{Timeout: timeout},
	}
}

// realClient talks to the vendor streaming API.
type realClient struct {
	baseURL string
	apiKey  string
	quality string
	client  *http.Client
}

type vendorEnvelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// post sends a JSON body and decodes the vendor envelope, retrying transient
// failures with exponential backoff.
func (c *realClient) post(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	var data json.RawMessage
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(b))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("avatar api %s returned status %d", path, resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("avatar api %s returned status %d: %s", path, resp.StatusCode, raw))
		}

		var env vendorEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return backoff.Permanent(fmt.Errorf("failed to decode avatar api response: %w", err))
		}
		data = env.Data
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = 20 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return data, nil
}

// StartSession allocates a new avatar session and returns its credentials
func (c *realClient) StartSession(ctx context.Context, avatarID, language string) (*Credentials, error) {
	payload := map[string]interface{}{
		"avatar_id": avatarID,
		"quality":   c.quality,
		"version":   "v2",
	}
	if language != "" {
		payload["language"] = language
	}

	data, err := c.post(ctx, "/v1/streaming.new", payload)
	if err != nil {
		return nil, fmt.Errorf("failed to start avatar session: %w", err)
	}

	var out struct {
		SessionID   string `json:"session_id"`
		URL         string `json:"url"`
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode session credentials: %w", err)
	}
	if out.SessionID == "" || out.URL == "" {
		return nil, fmt.Errorf("avatar api returned incomplete credentials")
	}

	return &Credentials{
		Handle:      out.SessionID,
		URL:         out.URL,
		AccessToken: out.AccessToken,
	}, nil
}

// StartStreaming asks the vendor to begin publishing media into the room
func (c *realClient) StartStreaming(ctx context.Context, handle string) error {
	_, err := c.post(ctx, "/v1/streaming.start", map[string]string{"session_id": handle})
	if err != nil {
		return fmt.Errorf("failed to start streaming: %w", err)
	}
	return nil
}

// Speak makes the avatar voice the text; returns a duration hint in ms
func (c *realClient) Speak(ctx context.Context, handle, text string) (int, error) {
	data, err := c.post(ctx, "/v1/streaming.task", map[string]string{
		"session_id": handle,
		"text":       text,
		"task_type":  "repeat",
	})
	if err != nil {
		return 0, fmt.Errorf("failed to send speak task: %w", err)
	}

	var out struct {
		DurationMS float64 `json:"duration_ms"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		// Duration hint is advisory only
		return 0, nil
	}
	return int(out.DurationMS), nil
}

// Interrupt cuts off the current utterance, best effort
func (c *realClient) Interrupt(ctx context.Context, handle string) error {
	_, err := c.post(ctx, "/v1/streaming.interrupt", map[string]string{"session_id": handle})
	if err != nil {
		return fmt.Errorf("failed to interrupt: %w", err)
	}
	return nil
}

// EndSession releases the avatar session
func (c *realClient) EndSession(ctx context.Context, handle string) error {
	_, err := c.post(ctx, "/v1/streaming.stop", map[string]string{"session_id": handle})
	if err != nil {
		return fmt.Errorf("failed to end avatar session: %w", err)
	}
	return nil
}

// mockClient simulates the vendor against a local media server. Tokens are
// minted locally so the rest of the pipeline behaves exactly as in
// production.
type mockClient struct {
	url       string
	apiKey    string
	apiSecret string
}

// StartSession (mock) mints a room token for the local media server
func (m *mockClient) StartSession(ctx context.Context, avatarID, language string) (*Credentials, error) {
	handle := "mock-" + uuid.NewString()

	canPublish := true
	canSubscribe := true
	at := auth.NewAccessToken(m.apiKey, m.apiSecret)
	grant := &auth.VideoGrant{
		RoomJoin:     true,
		Room:         handle,
		CanPublish:   &canPublish,
		CanSubscribe: &canSubscribe,
	}
	at.AddGrant(grant).
		SetIdentity("trainee").
		SetValidFor(4 * time.Hour)

	token, err := at.ToJWT()
	if err != nil {
		return nil, fmt.Errorf("failed to generate mock token: %w", err)
	}

	return &Credentials{
		Handle:      handle,
		URL:         m.url,
		AccessToken: token,
	}, nil
}

// StartStreaming (mock) always succeeds
func (m *mockClient) StartStreaming(ctx context.Context, handle string) error {
	return nil
}

// Speak (mock) estimates the duration from text length
func (m *mockClient) Speak(ctx context.Context, handle, text string) (int, error) {
	return len(text) * 60, nil
}

// Interrupt (mock) always succeeds
func (m *mockClient) Interrupt(ctx context.Context, handle string) error {
	return nil
}

// EndSession (mock) always succeeds
func (m *mockClient) EndSession(ctx context.Context, handle string) error {
	return nil
}
