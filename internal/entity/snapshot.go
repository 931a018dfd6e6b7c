package entity

import (
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
)

// RoomSnapshot is a read-only view of a room published outside the dispatcher loop.
type RoomSnapshot struct {
	ID            string           `json:"id"`
	Status        RoomStatus       `json:"status"`
	Players       []Player         `json:"players"`
	CurrentPlayer connectfour.Seat `json:"currentPlayer"`
	Winner        connectfour.Seat `json:"winner"`
	GameOver      bool             `json:"gameOver"`
	MoveCount     int              `json:"moveCount"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}
