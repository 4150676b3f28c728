package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/mcoot/rocketbingo/internal/model"
)

func newPlayCmd(cfg *Config) *cobra.Command {
	var linger time.Duration

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open an interactive game session",
		Long: `Open a WebSocket session and send one intent per input line.

Each line is an event name optionally followed by a JSON payload:

  create_room {"playerName":"Alice","numberGenerator":"BUILTIN"}
  join_room {"roomId":"ABC123","playerName":"Bob"}
  start_game {"roomId":"ABC123"}
  mark_cell {"roomId":"ABC123","cellIndex":7}
  call_bingo {"roomId":"ABC123","markedCells":[0,1,2,3,4]}
  get_next_number {"roomId":"ABC123"}
  challenge_bingo {"roomId":"ABC123","playerId":"..."}

Everything the server sends is printed. The session ends at end of input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return play(cfg, cmd.InOrStdin(), NewOutput(cmd.OutOrStdout(), cfg.Output), linger)
		},
	}

	cmd.Flags().DurationVar(&linger, "linger", time.Second, "How long to keep listening after end of input")

	return cmd
}

func play(cfg *Config, in io.Reader, out *Output, linger time.Duration) error {
	conn, _, err := websocket.DefaultDialer.Dial(NewClient(cfg.ServerURL).WebSocketURL("/ws"), nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if cfg.Verbose {
		out.PrintMessage("Connected")
	}

	// Print everything the server sends until the socket closes
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var env model.Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			out.PrintEvent(string(env.Event), string(env.Data))
		}
	}()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		env, err := ParseIntent(line)
		if err != nil {
			out.PrintMessage("invalid input: " + err.Error())
			continue
		}
		if err := conn.WriteJSON(env); err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-time.After(linger):
	}

	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	select {
	case <-done:
	case <-time.After(time.Second):
	}

	if cfg.Verbose {
		out.PrintMessage("Disconnected")
	}
	return nil
}

// ParseIntent turns an input line of the form `<event> [json]` into an
// envelope
func ParseIntent(line string) (model.Envelope, error) {
	event, payload, _ := strings.Cut(strings.TrimSpace(line), " ")
	if event == "" {
		return model.Envelope{}, errors.New("missing event name")
	}

	env := model.Envelope{Event: model.EventType(event)}

	payload = strings.TrimSpace(payload)
	if payload != "" {
		if !json.Valid([]byte(payload)) {
			return model.Envelope{}, fmt.Errorf("payload of %s is not valid JSON", event)
		}
		env.Data = json.RawMessage(payload)
	}

	return env, nil
}
