package entity

import (
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
)

// Move is a recorded, immutable turn.
type Move struct {
	Player    connectfour.Seat `json:"player"`
	Column    int              `json:"column"`
	Row       int              `json:"row"`
	Sequence  int              `json:"sequence"`
	Timestamp time.Time        `json:"timestamp"`
}

type GameState struct {
	Board         connectfour.Board `json:"board"`
	CurrentPlayer connectfour.Seat  `json:"currentPlayer"`
	Winner        connectfour.Seat  `json:"winner"`
	GameOver      bool              `json:"gameOver"`
	Moves         []Move            `json:"moves"`
}

func NewGameState() *GameState {
	return &GameState{
		CurrentPlayer: connectfour.SeatOne,
		Winner:        connectfour.NoSeat,
		Moves:         []Move{},
	}
}

// IsDraw reports a finished game without a winner.
func (that *GameState) IsDraw() bool {
	return that.GameOver && that.Winner == connectfour.NoSeat
}

// play applies a validated turn for seat. On error the state is unchanged.
func (that *GameState) play(seat connectfour.Seat, column int, now time.Time) (Move, error) {
	row, err := connectfour.ApplyMove(&that.Board, column, seat)
	if err != nil {
		return Move{}, err
	}

	move := Move{
		Player:    seat,
		Column:    column,
		Row:       row,
		Sequence:  len(that.Moves) + 1,
		Timestamp: now,
	}
	that.Moves = append(that.Moves, move)
	that.CurrentPlayer = seat.Next()

	if connectfour.CheckWinner(&that.Board, row, column, seat) {
		that.Winner = seat
		that.GameOver = true
	} else if connectfour.IsFull(&that.Board) {
		that.GameOver = true
	}

	return move, nil
}

// Clone returns a deep copy safe to hand to another goroutine.
func (that *GameState) Clone() *GameState {
	clone := *that
	clone.Moves = make([]Move, len(that.Moves))
	copy(clone.Moves, that.Moves)

	return &clone
}
