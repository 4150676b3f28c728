package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func newRoom(id model.RoomID) *model.Room {
	return &model.Room{
		ID:              id,
		HostID:          "host",
		Players:         []model.Player{{ID: "host", Name: "Alice", JoinedAt: time.Now()}},
		GameState:       model.GameStateWaiting,
		GameMode:        model.GameModeClassic,
		NumberGenerator: model.NumberGeneratorExternal,
		CreatedAt:       time.Now(),
	}
}

// Room tests

func (s *StorageSuite) TestCreateAndGetRoom() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, newRoom("ABC123")))

	got, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.RoomID("ABC123"), got.ID)
	s.Len(got.Players, 1)
}

func (s *StorageSuite) TestCreateRoomRejectsDuplicate() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, newRoom("ABC123")))
	err := s.storage.CreateRoom(s.ctx, newRoom("ABC123"))
	s.ErrorIs(err, model.ErrRoomExists)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "NOPE00")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestReturnedRoomIsACopy() {
	s.Require().NoError(s.storage.CreateRoom(s.ctx, newRoom("ABC123")))

	got, _ := s.storage.GetRoom(s.ctx, "ABC123")
	got.Players = append(got.Players, model.Player{ID: "bob", Name: "Bob"})

	again, _ := s.storage.GetRoom(s.ctx, "ABC123")
	s.Len(again.Players, 1)
}

func (s *StorageSuite) TestSaveRoomUpserts() {
	room := newRoom("ABC123")
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	room.GameState = model.GameStateStarted
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal(model.GameStateStarted, got.GameState)
}

func (s *StorageSuite) TestRoomExistsAndCount() {
	exists, err := s.storage.RoomExists(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.CreateRoom(s.ctx, newRoom("ABC123"))
	_ = s.storage.CreateRoom(s.ctx, newRoom("XYZ789"))

	exists, _ = s.storage.RoomExists(s.ctx, "ABC123")
	s.True(exists)

	count, err := s.storage.CountRooms(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *StorageSuite) TestDeleteRoomPurgesEverything() {
	_ = s.storage.CreateRoom(s.ctx, newRoom("ABC123"))
	_, _ = s.storage.ToggleMark(s.ctx, "ABC123", "host", 3)
	_ = s.storage.AppendDraw(s.ctx, "ABC123", model.Draw{Value: "7", PoolIndex: 6})
	_ = s.storage.SaveReferenceBoard(s.ctx, "ABC123", &model.BingoBoard{})
	s.Equal(1, s.storage.TrackedRooms())

	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "ABC123"))

	_, err := s.storage.GetRoom(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrRoomNotFound)
	s.Equal(0, s.storage.TrackedRooms())

	marks, _ := s.storage.GetMarks(s.ctx, "ABC123", "host")
	s.Empty(marks)
	draws, _ := s.storage.GetDraws(s.ctx, "ABC123")
	s.Empty(draws)
	_, err = s.storage.GetReferenceBoard(s.ctx, "ABC123")
	s.ErrorIs(err, model.ErrBoardNotFound)
}

// Mark tests

func (s *StorageSuite) TestToggleMark() {
	marked, err := s.storage.ToggleMark(s.ctx, "ABC123", "host", 5)
	s.Require().NoError(err)
	s.True(marked)

	_, _ = s.storage.ToggleMark(s.ctx, "ABC123", "host", 1)
	marks, _ := s.storage.GetMarks(s.ctx, "ABC123", "host")
	s.Equal([]int{1, 5}, marks)

	marked, err = s.storage.ToggleMark(s.ctx, "ABC123", "host", 5)
	s.Require().NoError(err)
	s.False(marked)

	marks, _ = s.storage.GetMarks(s.ctx, "ABC123", "host")
	s.Equal([]int{1}, marks)
}

func (s *StorageSuite) TestMarksArePerPlayer() {
	_, _ = s.storage.ToggleMark(s.ctx, "ABC123", "host", 5)

	marks, err := s.storage.GetMarks(s.ctx, "ABC123", "guest")
	s.Require().NoError(err)
	s.NotNil(marks)
	s.Empty(marks)
}

// Draw tests

func (s *StorageSuite) TestDrawsKeepOrder() {
	_ = s.storage.AppendDraw(s.ctx, "ABC123", model.Draw{Value: "7", PoolIndex: 6})
	_ = s.storage.AppendDraw(s.ctx, "ABC123", model.Draw{Value: "1", PoolIndex: 0})

	draws, err := s.storage.GetDraws(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal([]model.Draw{{Value: "7", PoolIndex: 6}, {Value: "1", PoolIndex: 0}}, draws)
}

// Reference board tests

func (s *StorageSuite) TestReferenceBoardRoundTrip() {
	var board model.BingoBoard
	board[0].Content = "42"
	s.Require().NoError(s.storage.SaveReferenceBoard(s.ctx, "ABC123", &board))

	board[0].Content = "changed"
	got, err := s.storage.GetReferenceBoard(s.ctx, "ABC123")
	s.Require().NoError(err)
	s.Equal("42", got[0].Content)
}
