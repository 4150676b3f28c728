package storage

import (
	"context"

	"github.com/mcoot/rocketbingo/internal/model"
)

// Storage is the room registry. It owns every piece of per-room state so a
// single DeleteRoom clears all of it.
type Storage interface {
	// Room operations
	CreateRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)
	SaveRoom(ctx context.Context, room *model.Room) error
	DeleteRoom(ctx context.Context, id model.RoomID) error
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)
	CountRooms(ctx context.Context) (int, error)

	// Marked cells, per room and player
	ToggleMark(ctx context.Context, id model.RoomID, player model.SessionID, index int) (bool, error)
	GetMarks(ctx context.Context, id model.RoomID, player model.SessionID) ([]int, error)

	// Built-in draw history
	AppendDraw(ctx context.Context, id model.RoomID, draw model.Draw) error
	GetDraws(ctx context.Context, id model.RoomID) ([]model.Draw, error)

	// Reference board generated at game start
	SaveReferenceBoard(ctx context.Context, id model.RoomID, board *model.BingoBoard) error
	GetReferenceBoard(ctx context.Context, id model.RoomID) (*model.BingoBoard, error)
}
