package redis

import (
	"fmt"

	"github.com/mcoot/rocketbingo/internal/model"
)

// Key prefix for all bingo data
const keyPrefix = "bingo"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomsIndexKey returns the key of the SET of live room ids
func roomsIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}

// marksKey returns the SET of marked cell indices for one player in a room
func marksKey(id model.RoomID, player model.SessionID) string {
	return fmt.Sprintf("%s:marks:%s:%s", keyPrefix, id, player)
}

// marksIndexKey returns the SET of mark keys belonging to a room
func marksIndexKey(id model.RoomID) string {
	return fmt.Sprintf("%s:idx:marks:%s", keyPrefix, id)
}

// drawsKey returns the LIST of built-in draws for a room
func drawsKey(id model.RoomID) string {
	return fmt.Sprintf("%s:draws:%s", keyPrefix, id)
}

// boardKey returns the key of a room's reference board
func boardKey(id model.RoomID) string {
	return fmt.Sprintf("%s:board:%s", keyPrefix, id)
}
