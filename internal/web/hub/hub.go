package hub

import (
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/rocketbingo/internal/model"
)

// Hub fans messages out to every client subscribed to one room. Delivery
// happens on the caller's goroutine, so a client sees a room's broadcasts
// and its own direct messages in the order they were published.
type Hub struct {
	roomID  model.RoomID
	clients map[*Client]bool
	mu      sync.RWMutex
	logger  *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewHub creates a new Hub for a room
func NewHub(roomID model.RoomID, logger *slog.Logger) *Hub {
	return &Hub{
		roomID:  roomID,
		clients: make(map[*Client]bool),
		logger:  logger.With(slog.String("room", string(roomID))),
		done:    make(chan struct{}),
	}
}

// Register adds a client to the hub. Returns false if the hub has been closed.
func (h *Hub) Register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed() {
		return false
	}

	h.clients[client] = true
	h.logger.Debug("client registered",
		slog.String("client_id", client.id),
		slog.Int("total_clients", len(h.clients)))
	return true
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	h.logger.Debug("client unregistered",
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)),
		slog.Int("total_clients", len(h.clients)))
}

// Broadcast sends a message to all clients. A client whose buffer is full
// misses the message.
func (h *Hub) Broadcast(message Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed() {
		return
	}

	sentCount := 0
	droppedCount := 0
	for client := range h.clients {
		if client.Deliver(message) {
			sentCount++
			continue
		}
		droppedCount++
		h.logger.Warn("message dropped - client buffer full",
			slog.String("client_id", client.id),
			slog.String("event", message.Event))
	}
	if droppedCount > 0 {
		h.logger.Warn("broadcast partial failure",
			slog.Int("sent", sentCount),
			slog.Int("dropped", droppedCount))
	}
}

// Close shuts down the hub and detaches its clients
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		close(h.done)
		clientCount := len(h.clients)
		clear(h.clients)
		h.logger.Debug("hub stopped", slog.Int("detached_clients", clientCount))
	})
}

// Done is closed when the hub stops
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) closed() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Manager owns one hub per live room
type Manager struct {
	hubs   map[model.RoomID]*Hub
	mu     sync.RWMutex
	logger *slog.Logger
}

// NewManager creates a new Manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		hubs:   make(map[model.RoomID]*Hub),
		logger: logger.With(slog.String("component", "hub")),
	}
}

// GetOrCreateHub returns the hub for a room, creating one if it doesn't exist
func (m *Manager) GetOrCreateHub(roomID model.RoomID) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		return hub
	}

	hub := NewHub(roomID, m.logger)
	m.hubs[roomID] = hub
	return hub
}

// GetHub returns the hub for a room, or nil if it doesn't exist
func (m *Manager) GetHub(roomID model.RoomID) *Hub {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hubs[roomID]
}

// Subscribe registers the client with the room's hub, replacing a hub that
// was closed underneath us
func (m *Manager) Subscribe(roomID model.RoomID, client *Client) *Hub {
	for {
		hub := m.GetOrCreateHub(roomID)
		if hub.Register(client) {
			return hub
		}
		m.mu.Lock()
		if m.hubs[roomID] == hub {
			delete(m.hubs, roomID)
		}
		m.mu.Unlock()
	}
}

// Unsubscribe removes the client from the room's hub, if any
func (m *Manager) Unsubscribe(roomID model.RoomID, client *Client) {
	if hub := m.GetHub(roomID); hub != nil {
		hub.Unregister(client)
	}
}

// Broadcast sends a message to the room's hub, if any
func (m *Manager) Broadcast(roomID model.RoomID, msg Message) {
	if hub := m.GetHub(roomID); hub != nil {
		hub.Broadcast(msg)
	}
}

// RemoveHub removes and closes a hub
func (m *Manager) RemoveHub(roomID model.RoomID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if hub, ok := m.hubs[roomID]; ok {
		hub.Close()
		delete(m.hubs, roomID)
		m.logger.Info("hub removed", slog.String("room", string(roomID)))
	}
}

// HubCount returns the number of live hubs
func (m *Manager) HubCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hubs)
}

// CleanupEmptyHubs removes hubs with no clients and returns how many went
func (m *Manager) CleanupEmptyHubs() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removedCount := 0
	for id, hub := range m.hubs {
		if hub.ClientCount() == 0 {
			hub.Close()
			delete(m.hubs, id)
			removedCount++
		}
	}
	if removedCount > 0 {
		m.logger.Info("empty hubs cleaned up", slog.Int("removed", removedCount))
	}
	return removedCount
}
