package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/services/broker"
	"github.com/mcoot/rocketbingo/internal/web/hub"
)

// Gateway tracks connected sessions and delivers events to them, either
// one at a time or through the room hubs
type Gateway struct {
	hubs   *hub.Manager
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[model.SessionID]*hub.Client
}

var _ broker.Publisher = (*Gateway)(nil)

// NewGateway creates a new Gateway
func NewGateway(hubs *hub.Manager, logger *slog.Logger) *Gateway {
	return &Gateway{
		hubs:     hubs,
		logger:   logger.With("component", "ws-gateway"),
		sessions: make(map[model.SessionID]*hub.Client),
	}
}

// Connect registers a session and returns its outbound queue
func (g *Gateway) Connect(session model.SessionID) *hub.Client {
	client := hub.NewClient(string(session))
	g.mu.Lock()
	g.sessions[session] = client
	g.mu.Unlock()
	return client
}

// Disconnect forgets a session and closes its outbound queue
func (g *Gateway) Disconnect(session model.SessionID) {
	g.mu.Lock()
	client, ok := g.sessions[session]
	delete(g.sessions, session)
	g.mu.Unlock()
	if ok {
		client.Close()
	}
}

// SessionCount returns the number of connected sessions
func (g *Gateway) SessionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

func (g *Gateway) client(session model.SessionID) *hub.Client {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sessions[session]
}

// Send delivers an event to a single session
func (g *Gateway) Send(session model.SessionID, event model.Event) {
	client := g.client(session)
	if client == nil {
		return
	}
	msg, err := Encode(event)
	if err != nil {
		g.logger.Error("failed to encode event", "event", event.Type, "error", err)
		return
	}
	if !client.Deliver(msg) {
		g.logger.Warn("message dropped - client buffer full",
			"session", session,
			"event", event.Type,
		)
	}
}

// Broadcast delivers an event to every subscriber of a room
func (g *Gateway) Broadcast(roomID model.RoomID, event model.Event) {
	msg, err := Encode(event)
	if err != nil {
		g.logger.Error("failed to encode event", "event", event.Type, "error", err)
		return
	}
	g.hubs.Broadcast(roomID, msg)
}

// Subscribe adds the session to the room's hub
func (g *Gateway) Subscribe(roomID model.RoomID, session model.SessionID) {
	if client := g.client(session); client != nil {
		g.hubs.Subscribe(roomID, client)
	}
}

// Unsubscribe removes the session from the room's hub
func (g *Gateway) Unsubscribe(roomID model.RoomID, session model.SessionID) {
	if client := g.client(session); client != nil {
		g.hubs.Unsubscribe(roomID, client)
	}
}

// CloseRoom shuts the room's hub down
func (g *Gateway) CloseRoom(roomID model.RoomID) {
	g.hubs.RemoveHub(roomID)
}

// Encode renders an event's payload as a hub message
func Encode(event model.Event) (hub.Message, error) {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return hub.Message{}, err
	}
	return hub.Message{Event: string(event.Type), Data: data}, nil
}
