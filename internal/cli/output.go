package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	mu     sync.Mutex
	w      io.Writer
	format string
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(w io.Writer, format string) *Output {
	return &Output{w: w, format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		_, _ = fmt.Fprintln(o.w, string(data))
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

// PrintEvent outputs one named event with its raw JSON payload
func (o *Output) PrintEvent(event, data string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	now := time.Now()

	if o.format == "json" {
		jsonData, _ := json.Marshal(EventLine{Time: now, Event: event, Data: data})
		_, _ = fmt.Fprintln(o.w, string(jsonData))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	// Truncate data if it's too long for display
	displayData := data
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	displayData = strings.ReplaceAll(displayData, "\n", " ")
	_, _ = fmt.Fprintf(o.w, "[%s] %s: %s\n", timestamp, event, displayData)
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case DrawHistory:
		o.printDrawHistory(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// EventLine is one received event in JSON output mode
type EventLine struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

// Player response type (matches API)
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	IsHost bool   `json:"is_host"`
}

// Room response type
type Room struct {
	ID              string   `json:"id"`
	HostID          string   `json:"host_id"`
	Players         []Player `json:"players"`
	GameState       string   `json:"game_state"`
	GameMode        string   `json:"game_mode"`
	NumberGenerator string   `json:"number_generator"`
}

// Draw response type
type Draw struct {
	Value     string `json:"value"`
	PoolIndex int    `json:"pool_index"`
}

// DrawHistory response type
type DrawHistory struct {
	RoomID    string `json:"room_id"`
	Draws     []Draw `json:"draws"`
	Remaining int    `json:"remaining"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	_, _ = fmt.Fprintf(o.w, "Room: %s\n", r.ID)
	_, _ = fmt.Fprintf(o.w, "State: %s\n", r.GameState)
	_, _ = fmt.Fprintf(o.w, "Mode: %s (%s numbers)\n", r.GameMode, strings.ToLower(r.NumberGenerator))
	_, _ = fmt.Fprintf(o.w, "Players (%d):\n", len(r.Players))
	for _, p := range r.Players {
		hostStr := ""
		if p.IsHost {
			hostStr = " [host]"
		}
		_, _ = fmt.Fprintf(o.w, "  - %s (%s)%s\n", p.Name, p.ID, hostStr)
	}
}

func (o *Output) printDrawHistory(h DrawHistory) {
	_, _ = fmt.Fprintf(o.w, "Room: %s\n", h.RoomID)
	if len(h.Draws) == 0 {
		_, _ = fmt.Fprintln(o.w, "Nothing drawn yet")
	} else {
		values := make([]string, len(h.Draws))
		for i, d := range h.Draws {
			values[i] = d.Value
		}
		_, _ = fmt.Fprintf(o.w, "Drawn (%d): %s\n", len(h.Draws), strings.Join(values, ", "))
	}
	_, _ = fmt.Fprintf(o.w, "Remaining: %d\n", h.Remaining)
}

func (o *Output) printHealthResult(h HealthResult) {
	_, _ = fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}
