package connectfour

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
)

const (
	Rows      = 6
	Columns   = 7
	WinLength = 4
)

// Seat is a player number. It doubles as the token stored in a board cell.
type Seat int

const (
	NoSeat Seat = iota
	SeatOne
	SeatTwo
)

var ErrInvalidSeat = errors.New("invalid seat")

// directions scanned from a landing cell: horizontal, vertical and both diagonals.
var directions = [4][2]int{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// Board is indexed [row][column]; row 0 is the top, row Rows-1 the bottom.
type Board [Rows][Columns]Seat

func (that Seat) Valid() bool {
	return that == SeatOne || that == SeatTwo
}

// Next returns the seat that moves after this one.
func (that Seat) Next() Seat {
	if that == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// MarshalJSON encodes NoSeat as null so empty cells and a missing winner read as null on the wire.
func (that Seat) MarshalJSON() ([]byte, error) {
	if that == NoSeat {
		return []byte("null"), nil
	}
	return json.Marshal(int(that))
}

func (that *Seat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*that = NoSeat
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("failed to decode seat: %w", err)
	}

	*that = Seat(n)
	return nil
}

// ApplyMove drops a token for seat into column and returns the row it landed on.
// The board is left untouched on error.
func ApplyMove(board *Board, column int, seat Seat) (int, error) {
	if column < 0 || column >= Columns {
		return -1, fmt.Errorf("%w: %d", apperror.ErrInvalidColumn, column)
	}

	if !seat.Valid() {
		return -1, fmt.Errorf("%w: %d", ErrInvalidSeat, seat)
	}

	for row := Rows - 1; row >= 0; row-- {
		if board[row][column] == NoSeat {
			board[row][column] = seat
			return row, nil
		}
	}

	return -1, fmt.Errorf("%w: %d", apperror.ErrFullColumn, column)
}

// CheckWinner reports whether the token at (row, col) completes a line of WinLength for seat.
func CheckWinner(board *Board, row, col int, seat Seat) bool {
	for _, dir := range directions {
		count := 1 + countFrom(board, row, col, dir[0], dir[1], seat) + countFrom(board, row, col, -dir[0], -dir[1], seat)
		if count >= WinLength {
			return true
		}
	}

	return false
}

// IsFull relies on gravity fill: the board is full once the top row is.
func IsFull(board *Board) bool {
	for col := 0; col < Columns; col++ {
		if board[0][col] == NoSeat {
			return false
		}
	}

	return true
}

func countFrom(board *Board, row, col, dRow, dCol int, seat Seat) int {
	count := 0
	for i := 1; i < WinLength; i++ {
		r, c := row+dRow*i, col+dCol*i
		if r < 0 || r >= Rows || c < 0 || c >= Columns || board[r][c] != seat {
			break
		}
		count++
	}

	return count
}
