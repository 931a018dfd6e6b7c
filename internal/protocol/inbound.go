package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	TypeCreateRoom = "create_room"
	TypeJoinRoom   = "join_room"
	TypeGameMove   = "game_move"
	TypeGameReset  = "game_reset"
	TypeLeaveRoom  = "leave_room"
)

// Inbound is one of CreateRoom, JoinRoom, GameMove, GameReset, LeaveRoom or Unrecognized.
type Inbound interface {
	inbound()
}

type CreateRoom struct {
	Username string `json:"username"`
}

type JoinRoom struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// GameMove keeps Column nil when the client omitted it.
type GameMove struct {
	Column *int `json:"column"`
}

type GameReset struct{}

type LeaveRoom struct{}

// Unrecognized carries a type tag the server does not handle.
type Unrecognized struct {
	Type string
}

func (CreateRoom) inbound()   {}
func (JoinRoom) inbound()     {}
func (GameMove) inbound()     {}
func (GameReset) inbound()    {}
func (LeaveRoom) inbound()    {}
func (Unrecognized) inbound() {}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses a raw client frame. Errors wrap apperror.ErrMalformedMessage.
func Decode(raw []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	switch env.Type {
	case TypeCreateRoom:
		return decodeAs[CreateRoom](raw)
	case TypeJoinRoom:
		return decodeAs[JoinRoom](raw)
	case TypeGameMove:
		return decodeAs[GameMove](raw)
	case TypeGameReset:
		return GameReset{}, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	default:
		return Unrecognized{Type: env.Type}, nil
	}
}

func decodeAs[T Inbound](raw []byte) (Inbound, error) {
	var msg T
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("%w: %w", apperror.ErrMalformedMessage, err)
	}

	return msg, nil
}
