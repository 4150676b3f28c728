package sse

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/web/hub"
)

// Time between keepalive pings
const pingPeriod = 30 * time.Second

// ServeSSE streams a room's broadcasts to a read-only spectator until the
// client goes away or the room is closed
func ServeSSE(w http.ResponseWriter, r *http.Request, hubs *hub.Manager, roomID model.RoomID) {
	// Check if SSE is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Create and register client
	client := hub.NewClient("spectator-" + uuid.NewString())
	roomHub := hubs.Subscribe(roomID, client)

	// Ensure cleanup on disconnect
	defer func() {
		roomHub.Unregister(client)
		client.Close()
	}()

	// Send initial connection event
	_, _ = w.Write(formatSSEMessage("connected", `{"roomId":"`+string(roomID)+`"}`))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-client.Messages():
			if _, err := w.Write(formatSSEMessage(msg.Event, string(msg.Data))); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Send keepalive comment
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-roomHub.Done():
			// Room was closed; pass on what was already queued first
			drain(w, client)
			_, _ = w.Write(formatSSEMessage("room_closed", `{"roomId":"`+string(roomID)+`"}`))
			flusher.Flush()
			return

		case <-r.Context().Done():
			// Client disconnected
			return
		}
	}
}

func drain(w http.ResponseWriter, client *hub.Client) {
	for {
		select {
		case msg := <-client.Messages():
			_, _ = w.Write(formatSSEMessage(msg.Event, string(msg.Data)))
		default:
			return
		}
	}
}

// formatSSEMessage formats an SSE message with event name and data
// Multi-line data is properly formatted with "data: " prefix on each line
func formatSSEMessage(eventName, data string) []byte {
	var b strings.Builder
	b.WriteString("event: " + eventName + "\n")
	// SSE requires each line of data to be prefixed with "data: "
	for _, line := range splitLines(data) {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	return []byte(b.String())
}

// splitLines splits a string into lines, handling various line endings
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
