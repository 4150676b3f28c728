package redis

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) CreateRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}
	ok, err := s.client.SetNX(ctx, roomKey(room.ID), data, s.cfg.RoomTTL).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrRoomExists
	}
	return s.client.SAdd(ctx, roomsIndexKey(), string(room.ID)).Err()
}

func (s *Storage) GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.ID), data, s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomsIndexKey(), string(room.ID))
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteRoom removes the room together with every mark set, the draw list and
// the reference board
func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	markKeys, err := s.client.SMembers(ctx, marksIndexKey(id)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys := append([]string{
		roomKey(id),
		marksIndexKey(id),
		drawsKey(id),
		boardKey(id),
	}, markKeys...)

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.SRem(ctx, roomsIndexKey(), string(id))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, id model.RoomID) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// CountRooms counts indexed rooms whose key has not expired, pruning stale
// index entries along the way
func (s *Storage) CountRooms(ctx context.Context) (int, error) {
	ids, err := s.client.SMembers(ctx, roomsIndexKey()).Result()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, id := range ids {
		exists, err := s.RoomExists(ctx, model.RoomID(id))
		if err != nil {
			return 0, err
		}
		if exists {
			count++
			continue
		}
		if err := s.client.SRem(ctx, roomsIndexKey(), id).Err(); err != nil {
			return 0, err
		}
	}
	return count, nil
}

// Mark operations

func (s *Storage) ToggleMark(ctx context.Context, id model.RoomID, player model.SessionID, index int) (bool, error) {
	key := marksKey(id, player)
	member := strconv.Itoa(index)

	isMarked, err := s.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, err
	}

	pipe := s.client.TxPipeline()
	if isMarked {
		pipe.SRem(ctx, key, member)
	} else {
		pipe.SAdd(ctx, key, member)
	}
	pipe.Expire(ctx, key, s.cfg.RoomTTL)
	pipe.SAdd(ctx, marksIndexKey(id), key)
	pipe.Expire(ctx, marksIndexKey(id), s.cfg.RoomTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return !isMarked, nil
}

func (s *Storage) GetMarks(ctx context.Context, id model.RoomID, player model.SessionID) ([]int, error) {
	members, err := s.client.SMembers(ctx, marksKey(id, player)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]int, 0, len(members))
	for _, m := range members {
		idx, err := strconv.Atoi(m)
		if err != nil {
			return nil, err
		}
		result = append(result, idx)
	}
	slices.Sort(result)
	return result, nil
}

// Draw operations

func (s *Storage) AppendDraw(ctx context.Context, id model.RoomID, draw model.Draw) error {
	data, err := json.Marshal(draw)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, drawsKey(id), data)
	pipe.Expire(ctx, drawsKey(id), s.cfg.RoomTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetDraws(ctx context.Context, id model.RoomID) ([]model.Draw, error) {
	items, err := s.client.LRange(ctx, drawsKey(id), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	draws := make([]model.Draw, 0, len(items))
	for _, item := range items {
		var d model.Draw
		if err := json.Unmarshal([]byte(item), &d); err != nil {
			return nil, err
		}
		draws = append(draws, d)
	}
	return draws, nil
}

// Reference board operations

func (s *Storage) SaveReferenceBoard(ctx context.Context, id model.RoomID, board *model.BingoBoard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, boardKey(id), data, s.cfg.RoomTTL).Err()
}

func (s *Storage) GetReferenceBoard(ctx context.Context, id model.RoomID) (*model.BingoBoard, error) {
	data, err := s.client.Get(ctx, boardKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrBoardNotFound
		}
		return nil, err
	}

	var board model.BingoBoard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil, err
	}
	return &board, nil
}
