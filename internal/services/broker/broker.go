package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/rocketbingo/internal/api/apierr"
	"github.com/mcoot/rocketbingo/internal/api/request"
	"github.com/mcoot/rocketbingo/internal/model"
	"github.com/mcoot/rocketbingo/internal/services/room"
)

// Publisher delivers events to sessions and room subscriber groups.
// Delivery is fire-and-forget.
type Publisher interface {
	// Send delivers an event to a single session
	Send(session model.SessionID, event model.Event)
	// Broadcast delivers an event to every subscriber of a room
	Broadcast(roomID model.RoomID, event model.Event)
	// Subscribe adds the session to the room's subscriber group
	Subscribe(roomID model.RoomID, session model.SessionID)
	// Unsubscribe removes the session from the room's subscriber group
	Unsubscribe(roomID model.RoomID, session model.SessionID)
	// CloseRoom tears down the room's subscriber group
	CloseRoom(roomID model.RoomID)
}

// Broker turns client intents into room transitions and publishes the
// results. Intents are handled one at a time from validation through to
// publishing, so a room never sees concurrent mutation and its broadcasts
// leave in the order they were produced.
type Broker struct {
	mu         sync.Mutex
	controller room.ControllerInterface
	publisher  Publisher
	logger     *slog.Logger

	// Room each session joined or created
	memberships map[model.SessionID]model.RoomID
}

// New creates a new Broker
func New(controller room.ControllerInterface, publisher Publisher, logger *slog.Logger) *Broker {
	return &Broker{
		controller:  controller,
		publisher:   publisher,
		logger:      logger.With("component", "broker"),
		memberships: make(map[model.SessionID]model.RoomID),
	}
}

// HandleMessage decodes a raw wire frame and dispatches it
func (b *Broker) HandleMessage(ctx context.Context, session model.SessionID, raw []byte) {
	var env model.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Event == "" {
		b.logger.Warn("malformed message", "session", session, "error", err)
		b.publisher.Send(session, errorEvent("Malformed message"))
		return
	}
	b.Dispatch(ctx, session, env.Event, env.Data)
}

// Dispatch runs a single intent. Failures are reported to the session
// alone; a panic inside a handler is logged and reported the same way.
func (b *Broker) Dispatch(ctx context.Context, session model.SessionID, intent model.EventType, data json.RawMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic handling intent",
				"intent", intent,
				"session", session,
				"panic", fmt.Sprint(r),
			)
			b.reportFailure(session, intent, nil)
		}
	}()

	var err error
	switch intent {
	case model.EventCreateRoom:
		err = b.createRoom(ctx, session, data)
	case model.EventJoinRoom:
		err = b.joinRoom(ctx, session, data)
	case model.EventStartGame:
		err = b.startGame(ctx, session, data)
	case model.EventMarkCell:
		err = b.markCell(ctx, session, data)
	case model.EventCallBingo:
		err = b.callBingo(ctx, session, data)
	case model.EventGetNextNumber:
		err = b.nextNumber(ctx, session, data)
	case model.EventChallengeBingo:
		err = b.challengeBingo(ctx, session, data)
	default:
		err = fmt.Errorf("%w: %s", model.ErrUnknownIntent, intent)
	}

	if err != nil {
		b.logger.Debug("intent rejected", "intent", intent, "session", session, "error", err)
		b.reportFailure(session, intent, err)
	}
}

// Disconnect removes the session from whichever room it was in
func (b *Broker) Disconnect(ctx context.Context, session model.SessionID) {
	b.mu.Lock()
	defer b.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic handling disconnect", "session", session, "panic", fmt.Sprint(r))
		}
	}()

	if err := b.leaveCurrent(ctx, session); err != nil {
		b.logger.Error("failed to remove disconnected session", "session", session, "error", err)
	}
}

// RoomOf returns the room the session is currently in
func (b *Broker) RoomOf(session model.SessionID) (model.RoomID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.memberships[session]
	return id, ok
}

func (b *Broker) reportFailure(session model.SessionID, intent model.EventType, err error) {
	msg := apierr.FailureMessage(intent)
	if err != nil {
		msg = apierr.WireMessage(intent, err)
	}

	if intent == model.EventJoinRoom {
		b.publisher.Send(session, model.Event{
			Type:    model.EventRoomJoined,
			Payload: model.RoomJoinedPayload{Room: nil, Success: false, Message: msg},
		})
		return
	}
	b.publisher.Send(session, errorEvent(msg))
}

func errorEvent(msg string) model.Event {
	return model.Event{Type: model.EventError, Payload: model.ErrorPayload{Message: msg}}
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedIntent, err)
	}
	return nil
}

// Intent handlers

func (b *Broker) createRoom(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.CreateRoom
	if err := decode(data, &in); err != nil {
		return err
	}

	r, err := b.controller.CreateRoom(ctx, session, in.PlayerName, room.CreateOptions{
		GameMode:        in.GameMode,
		NumberGenerator: in.NumberGenerator,
	})
	if err != nil {
		return err
	}

	b.moveTo(ctx, session, r.ID)
	b.publisher.Send(session, model.Event{
		Type:    model.EventRoomCreated,
		Payload: model.RoomCreatedPayload{RoomID: r.ID, Room: r},
	})
	return nil
}

func (b *Broker) joinRoom(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.JoinRoom
	if err := decode(data, &in); err != nil {
		return err
	}

	r, added, err := b.controller.JoinRoom(ctx, session, in.RoomID, in.PlayerName)
	if err != nil {
		return err
	}

	b.moveTo(ctx, session, r.ID)
	b.publisher.Send(session, model.Event{
		Type:    model.EventRoomJoined,
		Payload: model.RoomJoinedPayload{Room: r, Success: true},
	})
	if added {
		b.publisher.Broadcast(r.ID, model.Event{
			Type:    model.EventPlayerJoined,
			Payload: model.RoomPayload{Room: r},
		})
	}
	return nil
}

func (b *Broker) startGame(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.Room
	if err := decode(data, &in); err != nil {
		return err
	}

	r, err := b.controller.StartGame(ctx, session, in.RoomID)
	if err != nil {
		return err
	}

	b.publisher.Broadcast(r.ID, model.Event{
		Type:    model.EventGameStarted,
		Payload: model.RoomPayload{Room: r},
	})
	return nil
}

func (b *Broker) markCell(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.MarkCell
	if err := decode(data, &in); err != nil {
		return err
	}

	// A missing index is rejected by the controller after the room checks
	index := -1
	if in.CellIndex != nil {
		index = *in.CellIndex
	}

	r, err := b.controller.MarkCell(ctx, session, in.RoomID, index)
	if err != nil {
		return err
	}

	b.publisher.Broadcast(r.ID, model.Event{
		Type: model.EventGameStateUpdate,
		Payload: model.GameStateUpdatePayload{
			Room:       r,
			MarkedCell: &model.MarkedCell{PlayerID: session, CellIndex: index},
		},
	})
	return nil
}

func (b *Broker) callBingo(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.CallBingo
	if err := decode(data, &in); err != nil {
		return err
	}

	result, err := b.controller.CallBingo(ctx, session, in.RoomID, in.MarkedCells)
	if err != nil {
		return err
	}

	b.publisher.Broadcast(in.RoomID, model.Event{
		Type:    model.EventBingoValidation,
		Payload: result,
	})
	return nil
}

func (b *Broker) nextNumber(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.Room
	if err := decode(data, &in); err != nil {
		return err
	}

	result, err := b.controller.NextNumber(ctx, session, in.RoomID)
	if err != nil {
		return err
	}

	b.publisher.Broadcast(in.RoomID, model.Event{
		Type:    model.EventNumberGenerated,
		Payload: result,
	})
	return nil
}

func (b *Broker) challengeBingo(ctx context.Context, session model.SessionID, data json.RawMessage) error {
	var in request.ChallengeBingo
	if err := decode(data, &in); err != nil {
		return err
	}

	result, err := b.controller.ChallengeBingo(ctx, session, in.RoomID, in.PlayerID)
	if err != nil {
		return err
	}

	b.publisher.Broadcast(in.RoomID, model.Event{
		Type:    model.EventBingoChallenged,
		Payload: result,
	})
	return nil
}

// Membership bookkeeping

// moveTo records the session as a member of id, first leaving any other
// room it was in, and subscribes it to the room's broadcasts
func (b *Broker) moveTo(ctx context.Context, session model.SessionID, id model.RoomID) {
	if current, ok := b.memberships[session]; ok && current != id {
		if err := b.leaveCurrent(ctx, session); err != nil {
			b.logger.Error("failed to leave previous room",
				"session", session,
				"room", current,
				"error", err,
			)
		}
	}
	b.memberships[session] = id
	b.publisher.Subscribe(id, session)
}

// leaveCurrent removes the session from its recorded room and tells the
// remaining players
func (b *Broker) leaveCurrent(ctx context.Context, session model.SessionID) error {
	id, ok := b.memberships[session]
	if !ok {
		return nil
	}
	delete(b.memberships, session)
	b.publisher.Unsubscribe(id, session)

	result, err := b.controller.Leave(ctx, session, id)
	if err != nil {
		return err
	}

	if result.Deleted {
		b.publisher.CloseRoom(id)
		return nil
	}

	b.publisher.Broadcast(id, model.Event{
		Type:    model.EventPlayerJoined,
		Payload: model.RoomPayload{Room: result.Room},
	})
	return nil
}
