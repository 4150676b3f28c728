package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Rooms are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	rooms  map[model.RoomID]*model.Room
	marks  map[model.RoomID]map[model.SessionID]map[int]bool
	draws  map[model.RoomID][]model.Draw
	boards map[model.RoomID]*model.BingoBoard
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		rooms:  make(map[model.RoomID]*model.Room),
		marks:  make(map[model.RoomID]map[model.SessionID]map[int]bool),
		draws:  make(map[model.RoomID][]model.Draw),
		boards: make(map[model.RoomID]*model.BingoBoard),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.ID]; ok {
		return model.ErrRoomExists
	}
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.ID] = room.Clone()
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
	delete(s.marks, id)
	delete(s.draws, id)
	delete(s.boards, id)
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[id]
	return ok, nil
}

func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms), nil
}

// Mark operations

func (s *Storage) ToggleMark(ctx context.Context, id model.RoomID, player model.SessionID, index int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomMarks, ok := s.marks[id]
	if !ok {
		roomMarks = make(map[model.SessionID]map[int]bool)
		s.marks[id] = roomMarks
	}
	playerMarks, ok := roomMarks[player]
	if !ok {
		playerMarks = make(map[int]bool)
		roomMarks[player] = playerMarks
	}

	if playerMarks[index] {
		delete(playerMarks, index)
		return false, nil
	}
	playerMarks[index] = true
	return true, nil
}

func (s *Storage) GetMarks(ctx context.Context, id model.RoomID, player model.SessionID) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []int{}
	for idx := range s.marks[id][player] {
		result = append(result, idx)
	}
	slices.Sort(result)
	return result, nil
}

// Draw operations

func (s *Storage) AppendDraw(ctx context.Context, id model.RoomID, draw model.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draws[id] = append(s.draws[id], draw)
	return nil
}

func (s *Storage) GetDraws(ctx context.Context, id model.RoomID) ([]model.Draw, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]model.Draw, len(s.draws[id]))
	copy(result, s.draws[id])
	return result, nil
}

// Reference board operations

func (s *Storage) SaveReferenceBoard(ctx context.Context, id model.RoomID, board *model.BingoBoard) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *board
	s.boards[id] = &b
	return nil
}

func (s *Storage) GetReferenceBoard(ctx context.Context, id model.RoomID) (*model.BingoBoard, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	board, ok := s.boards[id]
	if !ok {
		return nil, model.ErrBoardNotFound
	}
	b := *board
	return &b, nil
}

// Introspection for tests

// TrackedRooms returns how many rooms have any ancillary state left
func (s *Storage) TrackedRooms() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[model.RoomID]bool)
	for id := range s.marks {
		ids[id] = true
	}
	for id := range s.draws {
		ids[id] = true
	}
	for id := range s.boards {
		ids[id] = true
	}
	return len(ids)
}
