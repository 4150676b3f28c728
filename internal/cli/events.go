package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newEventsCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "events <room-id>",
		Short: "Stream a room's events",
		Long: `Connect to the room's SSE endpoint and stream events in real-time.

Events include:
  - connected: Stream opened
  - player_joined: Room membership changed
  - game_started: Host started the game
  - game_state_update: A player toggled a cell
  - bingo_validation: Result of a bingo call
  - number_generated: Server drew a number or term
  - bingo_challenged: Host challenged a bingo call
  - room_closed: Last player left

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return streamEvents(ctx, cfg, args[0], NewOutput(cmd.OutOrStdout(), cfg.Output))
		},
	}
}

func streamEvents(ctx context.Context, cfg *Config, roomID string, out *Output) error {
	url := NewClient(cfg.ServerURL).URL("/api/v1/rooms/" + roomID + "/events")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	httpClient := &http.Client{
		Timeout: 0, // No timeout for SSE
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if cfg.Verbose {
		out.PrintMessage("Connected to room " + roomID)
	}

	err = readSSE(resp.Body, func(event, data string) bool {
		out.PrintEvent(event, data)
		return event != "room_closed"
	})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if cfg.Verbose {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// readSSE parses an event stream, calling fn per event until fn returns
// false or the stream ends
func readSSE(r io.Reader, fn func(event, data string) bool) error {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case line == "":
			// End of event
			if currentEvent != "" {
				if !fn(currentEvent, strings.Join(dataLines, "\n")) {
					return nil
				}
			}
			currentEvent = ""
			dataLines = nil
		}
	}

	return scanner.Err()
}
