package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/web/hub"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Intents receives what sessions send and learns when they go away
type Intents interface {
	HandleMessage(ctx context.Context, session model.SessionID, raw []byte)
	Disconnect(ctx context.Context, session model.SessionID)
}

// Handler upgrades HTTP requests to WebSocket sessions
type Handler struct {
	gateway  *Gateway
	intents  Intents
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new Handler
func NewHandler(gateway *Gateway, intents Intents, logger *slog.Logger) *Handler {
	return &Handler{
		gateway: gateway,
		intents: intents,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients are served from other origins
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With("component", "ws"),
	}
}

// ServeHTTP handles one WebSocket connection for its whole lifetime
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	session := model.SessionID(uuid.NewString())
	client := h.gateway.Connect(session)
	logger := h.logger.With("session", session)
	logger.Info("session connected", "remote_addr", r.RemoteAddr)

	ctx := context.WithoutCancel(r.Context())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.writePump(conn, client, logger)
	}()

	h.readPump(ctx, conn, session, logger)

	h.intents.Disconnect(ctx, session)
	h.gateway.Disconnect(session)
	<-done
	_ = conn.Close()
	logger.Info("session disconnected")
}

// readPump feeds inbound frames to the intent handler until the peer goes away
func (h *Handler) readPump(ctx context.Context, conn *websocket.Conn, session model.SessionID, logger *slog.Logger) {
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logger.Warn("websocket read error", "error", err)
			}
			return
		}
		h.intents.HandleMessage(ctx, session, raw)
	}
}

// writePump drains the client's queue onto the socket and keeps it alive
func (h *Handler) writePump(conn *websocket.Conn, client *hub.Client, logger *slog.Logger) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-client.Messages():
			if err := writeFrame(conn, msg, logger); err != nil {
				_ = conn.Close()
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}

		case <-client.Done():
			// Flush what was queued before the session ended
			for {
				select {
				case msg := <-client.Messages():
					if err := writeFrame(conn, msg, logger); err != nil {
						return
					}
					continue
				default:
				}
				break
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// writeFrame writes one hub message as an envelope text frame
func writeFrame(conn *websocket.Conn, msg hub.Message, logger *slog.Logger) error {
	frame, err := json.Marshal(model.Envelope{
		Event: model.EventType(msg.Event),
		Data:  msg.Data,
	})
	if err != nil {
		logger.Error("failed to encode frame", "event", msg.Event, "error", err)
		return nil
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
		logger.Warn("websocket write failed", "error", err)
		return err
	}
	return nil
}
