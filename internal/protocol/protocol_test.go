package protocol

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
)

func TestDecode(t *testing.T) {
	column := 3

	tests := []struct {
		name string
		raw  string
		want Inbound
	}{
		{"create room", `{"type":"create_room","username":"alice"}`, CreateRoom{Username: "alice"}},
		{"join room", `{"type":"join_room","roomId":"ABC123","username":"bob"}`, JoinRoom{RoomID: "ABC123", Username: "bob"}},
		{"game move", `{"type":"game_move","column":3}`, GameMove{Column: &column}},
		{"game move without column", `{"type":"game_move"}`, GameMove{}},
		{"game reset", `{"type":"game_reset"}`, GameReset{}},
		{"leave room", `{"type":"leave_room","roomId":"ignored"}`, LeaveRoom{}},
		{"unknown type", `{"type":"chat","text":"hi"}`, Unrecognized{Type: "chat"}},
		{"missing type", `{"username":"alice"}`, Unrecognized{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `create_room`},
		{"non string type", `{"type":5}`},
		{"non numeric column", `{"type":"game_move","column":"three"}`},
		{"non string username", `{"type":"create_room","username":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.raw))

			require.ErrorIs(t, err, apperror.ErrMalformedMessage)
			assert.Nil(t, got)
		})
	}
}

func TestEncode(t *testing.T) {
	now := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	room := entity.NewRoom("ABC123", now)
	alice := &entity.Player{ID: "P1", Name: "alice", ConnID: "c1"}
	bob := &entity.Player{ID: "P2", Name: "bob", ConnID: "c2"}
	_, _, err := room.Seat(alice, now)
	require.NoError(t, err)
	_, _, err = room.Seat(bob, now)
	require.NoError(t, err)

	t.Run("room_created", func(t *testing.T) {
		data, err := Encode(NewRoomCreated(room, alice))

		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"room_created","roomId":"ABC123","playerId":"P1","playerNumber":1}`, string(data))
	})

	t.Run("player_joined hides connection details", func(t *testing.T) {
		data, err := Encode(NewPlayerJoined(room, bob))

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type":"player_joined",
			"players":[{"id":"P1","username":"alice","playerNumber":1},{"id":"P2","username":"bob","playerNumber":2}],
			"newPlayer":{"id":"P2","username":"bob","playerNumber":2}
		}`, string(data))
	})

	t.Run("game_move carries the board with empty cells as null", func(t *testing.T) {
		move, err := room.ApplyPlayerMove("P1", 3, now)
		require.NoError(t, err)

		data, err := Encode(NewGameMoved(room, alice, move))
		require.NoError(t, err)

		var decoded struct {
			Type string `json:"type"`
			Move struct {
				Player int `json:"player"`
				Column int `json:"column"`
				Row    int `json:"row"`
			} `json:"move"`
			GameState struct {
				Board         [][]*int `json:"board"`
				CurrentPlayer int      `json:"currentPlayer"`
				Winner        *int     `json:"winner"`
				GameOver      bool     `json:"gameOver"`
				Moves         []any    `json:"moves"`
			} `json:"gameState"`
			PlayerName string `json:"playerName"`
		}
		require.NoError(t, json.Unmarshal(data, &decoded))

		assert.Equal(t, TypeGameMove, decoded.Type)
		assert.Equal(t, 1, decoded.Move.Player)
		assert.Equal(t, 5, decoded.Move.Row)
		assert.Equal(t, "alice", decoded.PlayerName)
		assert.Equal(t, 2, decoded.GameState.CurrentPlayer)
		assert.Nil(t, decoded.GameState.Winner)
		assert.Len(t, decoded.GameState.Moves, 1)
		require.Len(t, decoded.GameState.Board, connectfour.Rows)
		assert.Nil(t, decoded.GameState.Board[0][0])
		require.NotNil(t, decoded.GameState.Board[5][3])
		assert.Equal(t, 1, *decoded.GameState.Board[5][3])
	})

	t.Run("player_left", func(t *testing.T) {
		data, err := Encode(NewPlayerLeft(alice, []*entity.Player{bob}))

		require.NoError(t, err)
		assert.JSONEq(t, `{
			"type":"player_left","playerId":"P1","playerName":"alice",
			"players":[{"id":"P2","username":"bob","playerNumber":2}]
		}`, string(data))
	})

	t.Run("error", func(t *testing.T) {
		data, err := Encode(NewError(apperror.ErrNotYourTurn))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"error","message":"not your turn","code":"NOT_YOUR_TURN"}`, string(data))

		data, err = Encode(NewError(errors.New("redis: connection refused")))
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"error","message":"internal server error","code":"INTERNAL"}`, string(data))
	})
}
