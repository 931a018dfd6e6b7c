package entity

import "github.com/rocketscienceinc/connect4-backend/internal/connectfour"

type Player struct {
	ID     string           `json:"id"`
	Name   string           `json:"username"`
	RoomID string           `json:"-"`
	Seat   connectfour.Seat `json:"playerNumber"`
	ConnID string           `json:"-"`
}
