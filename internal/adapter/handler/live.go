package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/LuqmanKt98/testify-ai-avatar/internal/domain/entities"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/live"
	"github.com/LuqmanKt98/testify-ai-avatar/internal/usecase/session"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// controlMessage is a text frame on the live channel uplink.
type controlMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// wsConn serializes writes; the websocket library allows only one
// concurrent writer.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (w *wsConn) writeJSON(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteJSON(v)
}

func (w *wsConn) writeControl(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteMessage(messageType, data)
}

// Live bridges the websocket live channel to a running session. Binary
// frames carry PCM16 audio; text frames carry JSON control messages.
type Live struct {
	service  *session.Service
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewLive creates a new live channel handler
func NewLive(service *session.Service, logger *zap.Logger) *Live {
	return &Live{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Attach upgrades the connection and pumps events and audio
// GET /api/live/:id/ws
func (h *Live) Attach(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	s, ok := h.service.Live(id)
	if !ok {
		return HandleError(h.logger, c, entities.ErrSessionNotLive)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	if h.logger != nil {
		h.logger.Info("🔗 Live channel attached", zap.String("session_id", id.String()))
	}

	events := s.Events().Subscribe()
	done := make(chan struct{})
	ws := &wsConn{conn: conn}

	go h.writeLoop(ws, events, done)
	h.readLoop(c, ws, s)

	close(done)
	s.Events().Unsubscribe(events)
	conn.Close()

	if h.logger != nil {
		h.logger.Info("🔗 Live channel detached", zap.String("session_id", id.String()))
	}
	return nil
}

// writeLoop pushes session events down to the client.
func (h *Live) writeLoop(ws *wsConn, events chan live.Event, done chan struct{}) {
	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := ws.writeJSON(event); err != nil {
				return
			}
			if event.Type == live.EventSessionEnded {
				ws.writeControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session ended"))
				return
			}
		case <-ping.C:
			if err := ws.writeControl(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop consumes uplink frames until the client goes away.
func (h *Live) readLoop(c echo.Context, ws *wsConn, s *live.Session) {
	ctx := c.Request().Context()

	for {
		msgType, data, err := ws.conn.ReadMessage()
		if err != nil {
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.PushAudio(ctx, data)
		case websocket.TextMessage:
			h.handleControl(ctx, ws, s, data)
		}
	}
}

// handleControl dispatches one JSON control frame. Failures go back to the
// client as error events rather than closing the channel.
func (h *Live) handleControl(ctx context.Context, ws *wsConn, s *live.Session, data []byte) {
	var msg controlMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		h.sendError(ws, "malformed control message")
		return
	}

	var err error
	switch msg.Type {
	case "start_recording":
		err = s.StartRecording(ctx)
	case "stop_recording":
		s.StopRecording(ctx)
	case "say":
		err = s.Say(ctx, msg.Text)
	case "interrupt":
		err = s.Interrupt(ctx)
	default:
		h.sendError(ws, "unknown control message type: "+msg.Type)
		return
	}

	if err != nil {
		if h.logger != nil {
			h.logger.Warn("⚠️ Live control failed",
				zap.String("type", msg.Type),
				zap.Error(err))
		}
		h.sendError(ws, err.Error())
	}
}

func (h *Live) sendError(ws *wsConn, message string) {
	_ = ws.writeJSON(live.Event{
		Type:    live.EventError,
		Payload: map[string]interface{}{"message": message},
	})
}
