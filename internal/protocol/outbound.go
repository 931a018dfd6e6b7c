package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

const (
	TypeRoomCreated  = "room_created"
	TypeRoomJoined   = "room_joined"
	TypePlayerJoined = "player_joined"
	TypeGameStart    = "game_start"
	TypePlayerLeft   = "player_left"
	TypeError        = "error"
)

type RoomCreated struct {
	Type         string           `json:"type"`
	RoomID       string           `json:"roomId"`
	PlayerID     string           `json:"playerId"`
	PlayerNumber connectfour.Seat `json:"playerNumber"`
}

type RoomJoined struct {
	Type         string            `json:"type"`
	RoomID       string            `json:"roomId"`
	PlayerID     string            `json:"playerId"`
	PlayerNumber connectfour.Seat  `json:"playerNumber"`
	Players      []entity.Player   `json:"players"`
	GameState    *entity.GameState `json:"gameState"`
}

type PlayerJoined struct {
	Type      string          `json:"type"`
	Players   []entity.Player `json:"players"`
	NewPlayer entity.Player   `json:"newPlayer"`
}

type GameStart struct {
	Type          string           `json:"type"`
	CurrentPlayer connectfour.Seat `json:"currentPlayer"`
}

type MovePlayed struct {
	Player connectfour.Seat `json:"player"`
	Column int              `json:"column"`
	Row    int              `json:"row"`
}

type GameMoved struct {
	Type       string            `json:"type"`
	Move       MovePlayed        `json:"move"`
	GameState  *entity.GameState `json:"gameState"`
	PlayerName string            `json:"playerName"`
}

type GameWasReset struct {
	Type      string            `json:"type"`
	GameState *entity.GameState `json:"gameState"`
}

type PlayerLeft struct {
	Type       string          `json:"type"`
	PlayerID   string          `json:"playerId"`
	PlayerName string          `json:"playerName"`
	Players    []entity.Player `json:"players"`
}

type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func NewRoomCreated(room *entity.Room, player *entity.Player) RoomCreated {
	return RoomCreated{
		Type:         TypeRoomCreated,
		RoomID:       room.ID,
		PlayerID:     player.ID,
		PlayerNumber: player.Seat,
	}
}

func NewRoomJoined(room *entity.Room, player *entity.Player) RoomJoined {
	return RoomJoined{
		Type:         TypeRoomJoined,
		RoomID:       room.ID,
		PlayerID:     player.ID,
		PlayerNumber: player.Seat,
		Players:      PlayerList(room.Players()),
		GameState:    room.Game,
	}
}

func NewPlayerJoined(room *entity.Room, player *entity.Player) PlayerJoined {
	return PlayerJoined{
		Type:      TypePlayerJoined,
		Players:   PlayerList(room.Players()),
		NewPlayer: *player,
	}
}

func NewGameStart(room *entity.Room) GameStart {
	return GameStart{
		Type:          TypeGameStart,
		CurrentPlayer: room.Game.CurrentPlayer,
	}
}

func NewGameMoved(room *entity.Room, player *entity.Player, move entity.Move) GameMoved {
	return GameMoved{
		Type: TypeGameMove,
		Move: MovePlayed{
			Player: move.Player,
			Column: move.Column,
			Row:    move.Row,
		},
		GameState:  room.Game,
		PlayerName: player.Name,
	}
}

func NewGameWasReset(room *entity.Room) GameWasReset {
	return GameWasReset{
		Type:      TypeGameReset,
		GameState: room.Game,
	}
}

func NewPlayerLeft(player *entity.Player, remaining []*entity.Player) PlayerLeft {
	return PlayerLeft{
		Type:       TypePlayerLeft,
		PlayerID:   player.ID,
		PlayerName: player.Name,
		Players:    PlayerList(remaining),
	}
}

// NewError builds the reply for a failed request. Unknown errors are reported as INTERNAL.
func NewError(err error) Error {
	return Error{
		Type:    TypeError,
		Message: apperror.Message(err),
		Code:    apperror.Code(err),
	}
}

// PlayerList renders seated players as {id, username, playerNumber} entries.
func PlayerList(players []*entity.Player) []entity.Player {
	list := make([]entity.Player, 0, len(players))
	for _, p := range players {
		list = append(list, *p)
	}

	return list
}

func Encode(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T: %w", msg, err)
	}

	return data, nil
}
