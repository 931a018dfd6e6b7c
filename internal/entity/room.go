package entity

import (
	"fmt"
	"slices"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
)

const MaxPlayers = 2

type RoomStatus string

const (
	StatusWaitingForPlayer RoomStatus = "waiting_for_player"
	StatusInProgress       RoomStatus = "in_progress"
	StatusFinished         RoomStatus = "finished"
)

// Room owns one match. It is not safe for concurrent use; callers serialize access.
type Room struct {
	ID        string
	Game      *GameState
	CreatedAt time.Time
	UpdatedAt time.Time

	players map[string]*Player
}

func NewRoom(id string, now time.Time) *Room {
	return &Room{
		ID:        id,
		Game:      NewGameState(),
		CreatedAt: now,
		UpdatedAt: now,
		players:   make(map[string]*Player, MaxPlayers),
	}
}

func (that *Room) Status() RoomStatus {
	switch {
	case len(that.players) < MaxPlayers:
		return StatusWaitingForPlayer
	case that.Game.GameOver:
		return StatusFinished
	default:
		return StatusInProgress
	}
}

// Seat places player in the lowest free seat. started is true when this filled the room.
func (that *Room) Seat(player *Player, now time.Time) (connectfour.Seat, bool, error) {
	if len(that.players) >= MaxPlayers {
		return connectfour.NoSeat, false, fmt.Errorf("%w: %s", apperror.ErrRoomFull, that.ID)
	}

	seat := connectfour.SeatOne
	for _, p := range that.players {
		if p.Seat == seat {
			seat = seat.Next()
		}
	}

	player.Seat = seat
	player.RoomID = that.ID
	that.players[player.ID] = player
	that.UpdatedAt = now

	return seat, len(that.players) == MaxPlayers, nil
}

// ApplyPlayerMove validates turn order and plays column for playerID.
func (that *Room) ApplyPlayerMove(playerID string, column int, now time.Time) (Move, error) {
	player, ok := that.players[playerID]
	if !ok {
		return Move{}, fmt.Errorf("%w: player %s in room %s", apperror.ErrNotInRoom, playerID, that.ID)
	}

	switch that.Status() {
	case StatusWaitingForPlayer:
		return Move{}, apperror.ErrGameIsNotStarted
	case StatusFinished:
		return Move{}, apperror.ErrGameFinished
	case StatusInProgress:
	}

	if that.Game.CurrentPlayer != player.Seat {
		return Move{}, apperror.ErrNotYourTurn
	}

	move, err := that.Game.play(player.Seat, column, now)
	if err != nil {
		return Move{}, fmt.Errorf("failed to play column %d: %w", column, err)
	}

	that.UpdatedAt = now

	return move, nil
}

// Reset starts a fresh game regardless of the current state.
func (that *Room) Reset(now time.Time) {
	that.Game = NewGameState()
	that.UpdatedAt = now
}

// RemovePlayer frees the player's seat. The caller destroys the room once it is empty.
func (that *Room) RemovePlayer(playerID string, now time.Time) (*Player, bool) {
	player, ok := that.players[playerID]
	if !ok {
		return nil, false
	}

	delete(that.players, playerID)
	that.UpdatedAt = now

	return player, true
}

func (that *Room) Player(playerID string) (*Player, bool) {
	player, ok := that.players[playerID]
	return player, ok
}

// Players returns the seated players ordered by seat.
func (that *Room) Players() []*Player {
	players := make([]*Player, 0, len(that.players))
	for _, p := range that.players {
		players = append(players, p)
	}

	slices.SortFunc(players, func(a, b *Player) int {
		return int(a.Seat) - int(b.Seat)
	})

	return players
}

func (that *Room) IsEmpty() bool {
	return len(that.players) == 0
}

func (that *Room) Snapshot() *RoomSnapshot {
	players := make([]Player, 0, len(that.players))
	for _, p := range that.Players() {
		players = append(players, *p)
	}

	return &RoomSnapshot{
		ID:            that.ID,
		Status:        that.Status(),
		Players:       players,
		CurrentPlayer: that.Game.CurrentPlayer,
		Winner:        that.Game.Winner,
		GameOver:      that.Game.GameOver,
		MoveCount:     len(that.Game.Moves),
		CreatedAt:     that.CreatedAt,
		UpdatedAt:     that.UpdatedAt,
	}
}
