package model

import "time"

// SessionID identifies one client connection. It is the only identity a
// player has: there are no accounts, and a reconnect is a new session.
type SessionID string

// Player is a participant in a room
type Player struct {
	ID       SessionID `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joinedAt"`
}
