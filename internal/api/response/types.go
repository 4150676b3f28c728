package response

import (
	"time"

	"github.com/mcoot/rocketbingo/internal/model"
)

// Health is the response of the health endpoint
type Health struct {
	Status string `json:"status"`
}

// Player represents a player in API responses
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	IsHost   bool      `json:"is_host"`
	JoinedAt time.Time `json:"joined_at"`
}

// Room represents a room in API responses
type Room struct {
	ID              string    `json:"id"`
	HostID          string    `json:"host_id"`
	Players         []Player  `json:"players"`
	GameState       string    `json:"game_state"`
	GameMode        string    `json:"game_mode"`
	NumberGenerator string    `json:"number_generator"`
	CreatedAt       time.Time `json:"created_at"`
}

// RoomFromModel converts model.Room
func RoomFromModel(r *model.Room) Room {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = Player{
			ID:       string(p.ID),
			Name:     p.Name,
			IsHost:   r.IsHost(p.ID),
			JoinedAt: p.JoinedAt,
		}
	}

	return Room{
		ID:              string(r.ID),
		HostID:          string(r.HostID),
		Players:         players,
		GameState:       string(r.GameState),
		GameMode:        string(r.GameMode),
		NumberGenerator: string(r.NumberGenerator),
		CreatedAt:       r.CreatedAt,
	}
}

// Draw is one value drawn by the built-in generator
type Draw struct {
	Value     string `json:"value"`
	PoolIndex int    `json:"pool_index"`
}

// DrawHistory lists a room's draws in order
type DrawHistory struct {
	RoomID    string `json:"room_id"`
	Draws     []Draw `json:"draws"`
	Remaining int    `json:"remaining"`
}

// DrawHistoryFromModel converts a room's draws. poolSize is the size of the
// pool the room draws from.
func DrawHistoryFromModel(id model.RoomID, draws []model.Draw, poolSize int) DrawHistory {
	out := make([]Draw, len(draws))
	for i, d := range draws {
		out[i] = Draw{Value: d.Value, PoolIndex: d.PoolIndex}
	}
	return DrawHistory{
		RoomID:    string(id),
		Draws:     out,
		Remaining: poolSize - len(draws),
	}
}
