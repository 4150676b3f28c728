package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/rocketbingo/internal/api"
	"github.com/mcoot/rocketbingo/internal/api/apierr"
	"github.com/mcoot/rocketbingo/internal/api/response"
	"github.com/mcoot/rocketbingo/internal/factory"
	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/testutil"
)

// testServer runs the full router over a real listener so WebSocket
// sessions can be dialled
type testServer struct {
	*httptest.Server
	app *factory.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{Logger: testutil.NopLogger()})
	require.NoError(t, err)

	router := api.NewRouter(api.RouterConfig{
		Logger:         testutil.NopLogger(),
		RoomController: app.RoomController,
		DrawService:    app.DrawService,
		Hubs:           app.HubManager,
		WebSocket:      app.WebSocketHandler,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{Server: srv, app: app}
}

func (ts *testServer) get(t *testing.T, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// player is one connected WebSocket session
type player struct {
	t    *testing.T
	conn *websocket.Conn
}

func (ts *testServer) dial(t *testing.T) *player {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &player{t: t, conn: conn}
}

func (p *player) send(event model.EventType, payload any) {
	p.t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteJSON(model.Envelope{Event: event, Data: data}))
}

// expect reads the next frame and requires it to carry event
func (p *player) expect(event model.EventType, into any) {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var env model.Envelope
	require.NoError(p.t, p.conn.ReadJSON(&env))
	require.Equal(p.t, event, env.Event, "data: %s", env.Data)
	if into != nil {
		require.NoError(p.t, json.Unmarshal(env.Data, into))
	}
}

func (p *player) hangUp() {
	_ = p.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = p.conn.Close()
}

// createRoom opens a session that creates a room and returns both
func (ts *testServer) createRoom(t *testing.T, name string) (*player, model.RoomID) {
	t.Helper()
	host := ts.dial(t)
	host.send(model.EventCreateRoom, map[string]string{"playerName": name})

	var created model.RoomCreatedPayload
	host.expect(model.EventRoomCreated, &created)
	return host, created.RoomID
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/api/v1/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health response.Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health.Status)
}

func TestCreateJoinAndStart(t *testing.T) {
	ts := newTestServer(t)

	host, roomID := ts.createRoom(t, "Alice")
	assert.True(t, model.ValidateRoomID(string(roomID)))

	guest := ts.dial(t)
	guest.send(model.EventJoinRoom, map[string]string{"roomId": string(roomID), "playerName": "Bob"})

	var joined model.RoomJoinedPayload
	guest.expect(model.EventRoomJoined, &joined)
	assert.True(t, joined.Success)
	require.Len(t, joined.Room.Players, 2)
	assert.Equal(t, "Bob", joined.Room.Players[1].Name)

	host.expect(model.EventPlayerJoined, nil)
	guest.expect(model.EventPlayerJoined, nil)

	host.send(model.EventStartGame, map[string]string{"roomId": string(roomID)})

	var started model.RoomPayload
	host.expect(model.EventGameStarted, &started)
	assert.Equal(t, model.GameStateStarted, started.Room.GameState)
	guest.expect(model.EventGameStarted, &started)
	assert.Equal(t, model.GameStateStarted, started.Room.GameState)
}

func TestNonHostCannotStart(t *testing.T) {
	ts := newTestServer(t)

	host, roomID := ts.createRoom(t, "Alice")
	guest := ts.dial(t)
	guest.send(model.EventJoinRoom, map[string]string{"roomId": string(roomID), "playerName": "Bob"})
	guest.expect(model.EventRoomJoined, nil)
	guest.expect(model.EventPlayerJoined, nil)
	host.expect(model.EventPlayerJoined, nil)

	guest.send(model.EventStartGame, map[string]string{"roomId": string(roomID)})

	var failure model.ErrorPayload
	guest.expect(model.EventError, &failure)
	assert.Equal(t, "Only the host can start the game", failure.Message)

	resp := ts.get(t, "/api/v1/rooms/"+string(roomID))
	var room response.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.Equal(t, "waiting", room.GameState)
}

func TestJoinFailures(t *testing.T) {
	ts := newTestServer(t)
	p := ts.dial(t)

	tests := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{"missing name", map[string]string{"roomId": "ABC123"}, "Room ID and player name are required"},
		{"bad format", map[string]string{"roomId": "abc", "playerName": "Bob"}, "Invalid room ID format"},
		{"unknown room", map[string]string{"roomId": "ZZZZZZ", "playerName": "Bob"}, "Room not found"},
	}

	// One connection serves every case, so these run in order
	for _, tt := range tests {
		p.send(model.EventJoinRoom, tt.payload)

		var joined model.RoomJoinedPayload
		p.expect(model.EventRoomJoined, &joined)
		assert.False(t, joined.Success, tt.name)
		assert.Nil(t, joined.Room, tt.name)
		assert.Equal(t, tt.message, joined.Message, tt.name)
	}
}

func TestHostDisconnectTransfersHost(t *testing.T) {
	ts := newTestServer(t)

	host, roomID := ts.createRoom(t, "Alice")
	guest := ts.dial(t)
	guest.send(model.EventJoinRoom, map[string]string{"roomId": string(roomID), "playerName": "Bob"})

	var joined model.RoomJoinedPayload
	guest.expect(model.EventRoomJoined, &joined)
	guest.expect(model.EventPlayerJoined, nil)
	guestID := joined.Room.Players[1].ID

	host.hangUp()

	var update model.RoomPayload
	guest.expect(model.EventPlayerJoined, &update)
	assert.Equal(t, guestID, update.Room.HostID)
	require.Len(t, update.Room.Players, 1)
	assert.Equal(t, "Bob", update.Room.Players[0].Name)
}

func TestLastDisconnectDeletesRoom(t *testing.T) {
	ts := newTestServer(t)

	host, roomID := ts.createRoom(t, "Alice")
	host.hangUp()

	require.Eventually(t, func() bool {
		exists, err := ts.app.Storage.RoomExists(context.Background(), roomID)
		return err == nil && !exists
	}, 2*time.Second, 20*time.Millisecond)

	late := ts.dial(t)
	late.send(model.EventJoinRoom, map[string]string{"roomId": string(roomID), "playerName": "Carol"})

	var joined model.RoomJoinedPayload
	late.expect(model.EventRoomJoined, &joined)
	assert.False(t, joined.Success)
	assert.Equal(t, "Room not found", joined.Message)

	resp := ts.get(t, "/api/v1/rooms/"+string(roomID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMalformedFrame(t *testing.T) {
	ts := newTestServer(t)
	p := ts.dial(t)

	require.NoError(t, p.conn.WriteMessage(websocket.TextMessage, []byte("not json")))

	var failure model.ErrorPayload
	p.expect(model.EventError, &failure)
	assert.Equal(t, "Malformed message", failure.Message)
}

func TestGetRoom(t *testing.T) {
	ts := newTestServer(t)
	_, roomID := ts.createRoom(t, "Alice")

	resp := ts.get(t, "/api/v1/rooms/"+string(roomID))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var room response.Room
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.Equal(t, string(roomID), room.ID)
	assert.Equal(t, "CLASSIC", room.GameMode)
	assert.Equal(t, "EXTERNAL", room.NumberGenerator)
	require.Len(t, room.Players, 1)
	assert.True(t, room.Players[0].IsHost)
}

func TestGetRoomErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		code   string
	}{
		{"/api/v1/rooms/abc", http.StatusBadRequest, apierr.CodeInvalidRoomID},
		{"/api/v1/rooms/ZZZZZZ", http.StatusNotFound, apierr.CodeRoomNotFound},
		{"/api/v1/rooms/ZZZZZZ/draws", http.StatusNotFound, apierr.CodeRoomNotFound},
		{"/api/v1/rooms/ZZZZZZ/events", http.StatusNotFound, apierr.CodeRoomNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := ts.get(t, tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body apierr.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.code, body.Error.Code)
		})
	}
}

func TestDrawHistory(t *testing.T) {
	ts := newTestServer(t)

	host := ts.dial(t)
	host.send(model.EventCreateRoom, map[string]string{"playerName": "Alice", "numberGenerator": "BUILTIN"})
	var created model.RoomCreatedPayload
	host.expect(model.EventRoomCreated, &created)
	roomID := string(created.RoomID)

	host.send(model.EventStartGame, map[string]string{"roomId": roomID})
	host.expect(model.EventGameStarted, nil)

	var drawn []string
	for n := 0; n < 3; n++ {
		host.send(model.EventGetNextNumber, map[string]string{"roomId": roomID})
		var number model.NumberGeneratedPayload
		host.expect(model.EventNumberGenerated, &number)
		drawn = append(drawn, number.Number)
	}

	resp := ts.get(t, "/api/v1/rooms/"+roomID+"/draws")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var history response.DrawHistory
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&history))
	assert.Equal(t, roomID, history.RoomID)
	assert.Equal(t, 72, history.Remaining)
	require.Len(t, history.Draws, 3)
	for i, d := range history.Draws {
		assert.Equal(t, drawn[i], d.Value)
	}
}

func TestRoomEventStream(t *testing.T) {
	ts := newTestServer(t)
	host, roomID := ts.createRoom(t, "Alice")

	resp := ts.get(t, "/api/v1/rooms/"+string(roomID)+"/events")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 32)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	waitFor := func(want string) {
		t.Helper()
		timeout := time.After(2 * time.Second)
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream ended before %q", want)
				if line == want {
					return
				}
			case <-timeout:
				t.Fatalf("timed out waiting for %q", want)
			}
		}
	}

	waitFor("event: connected")

	host.send(model.EventStartGame, map[string]string{"roomId": string(roomID)})
	host.expect(model.EventGameStarted, nil)
	waitFor("event: game_started")

	host.hangUp()
	waitFor("event: room_closed")
}
