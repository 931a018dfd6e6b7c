package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/connectfour"
)

var now = time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)

func newFullRoom(t *testing.T) *Room {
	t.Helper()

	room := NewRoom("ABC123", now)
	_, _, err := room.Seat(&Player{ID: "p1", Name: "alice"}, now)
	require.NoError(t, err)
	_, _, err = room.Seat(&Player{ID: "p2", Name: "bob"}, now)
	require.NoError(t, err)

	return room
}

func TestNewRoom(t *testing.T) {
	// When: a room is created
	room := NewRoom("ABC123", now)

	// Then: it waits for players with a fresh game and player 1 to move
	assert.Equal(t, StatusWaitingForPlayer, room.Status())
	assert.True(t, room.IsEmpty())
	assert.Equal(t, connectfour.SeatOne, room.Game.CurrentPlayer)
	assert.Equal(t, connectfour.NoSeat, room.Game.Winner)
	assert.False(t, room.Game.GameOver)
	assert.Empty(t, room.Game.Moves)
	assert.Equal(t, now, room.CreatedAt)
}

func TestRoom_Seat(t *testing.T) {
	t.Run("Seats are assigned in join order and the second seat starts the game", func(t *testing.T) {
		room := NewRoom("ABC123", now)
		alice := &Player{ID: "p1"}
		bob := &Player{ID: "p2"}

		seat, started, err := room.Seat(alice, now)
		require.NoError(t, err)
		assert.Equal(t, connectfour.SeatOne, seat)
		assert.False(t, started)
		assert.Equal(t, "ABC123", alice.RoomID)

		seat, started, err = room.Seat(bob, now)
		require.NoError(t, err)
		assert.Equal(t, connectfour.SeatTwo, seat)
		assert.True(t, started)

		assert.Equal(t, StatusInProgress, room.Status())
		assert.Equal(t, []*Player{alice, bob}, room.Players())
	})

	t.Run("Third player is rejected", func(t *testing.T) {
		room := newFullRoom(t)

		seat, started, err := room.Seat(&Player{ID: "p3"}, now)

		require.ErrorIs(t, err, apperror.ErrRoomFull)
		assert.Equal(t, connectfour.NoSeat, seat)
		assert.False(t, started)
		assert.Len(t, room.Players(), 2)
	})

	t.Run("Vacated seat one is reused", func(t *testing.T) {
		room := newFullRoom(t)
		_, ok := room.RemovePlayer("p1", now)
		require.True(t, ok)

		seat, started, err := room.Seat(&Player{ID: "p3"}, now)

		require.NoError(t, err)
		assert.Equal(t, connectfour.SeatOne, seat)
		assert.True(t, started)
	})
}

func TestRoom_ApplyPlayerMove(t *testing.T) {
	t.Run("Moves land by gravity and alternate turns", func(t *testing.T) {
		room := newFullRoom(t)

		move, err := room.ApplyPlayerMove("p1", 3, now)
		require.NoError(t, err)
		assert.Equal(t, Move{Player: connectfour.SeatOne, Column: 3, Row: 5, Sequence: 1, Timestamp: now}, move)
		assert.Equal(t, connectfour.SeatTwo, room.Game.CurrentPlayer)

		move, err = room.ApplyPlayerMove("p2", 3, now)
		require.NoError(t, err)
		assert.Equal(t, 4, move.Row)
		assert.Equal(t, 2, move.Sequence)
		assert.Equal(t, connectfour.SeatOne, room.Game.CurrentPlayer)
		assert.Len(t, room.Game.Moves, 2)
	})

	t.Run("Current player follows move count parity", func(t *testing.T) {
		room := newFullRoom(t)
		ids := map[connectfour.Seat]string{connectfour.SeatOne: "p1", connectfour.SeatTwo: "p2"}
		columns := []int{0, 1, 2, 3, 4, 5, 6, 0, 1, 2, 3, 4, 5, 6}

		for n, column := range columns {
			want := connectfour.SeatOne
			if n%2 == 1 {
				want = connectfour.SeatTwo
			}
			require.Equal(t, want, room.Game.CurrentPlayer, "after %d moves", n)

			_, err := room.ApplyPlayerMove(ids[room.Game.CurrentPlayer], column, now)
			require.NoError(t, err)
		}
	})

	t.Run("Out of turn move fails and leaves the board unchanged", func(t *testing.T) {
		room := newFullRoom(t)
		before := room.Game.Clone()

		_, err := room.ApplyPlayerMove("p2", 0, now)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Equal(t, before, room.Game)
	})

	t.Run("Full column fails and keeps the turn", func(t *testing.T) {
		room := newFullRoom(t)
		for i := 0; i < connectfour.Rows; i++ {
			id := "p1"
			if i%2 == 1 {
				id = "p2"
			}
			_, err := room.ApplyPlayerMove(id, 2, now)
			require.NoError(t, err)
		}
		before := room.Game.Clone()

		_, err := room.ApplyPlayerMove("p1", 2, now)

		require.ErrorIs(t, err, apperror.ErrFullColumn)
		assert.Equal(t, before, room.Game)
	})

	t.Run("Invalid column", func(t *testing.T) {
		room := newFullRoom(t)

		_, err := room.ApplyPlayerMove("p1", 9, now)

		require.ErrorIs(t, err, apperror.ErrInvalidColumn)
		assert.Empty(t, room.Game.Moves)
	})

	t.Run("Game is not started with one player", func(t *testing.T) {
		room := NewRoom("ABC123", now)
		_, _, err := room.Seat(&Player{ID: "p1"}, now)
		require.NoError(t, err)

		_, err = room.ApplyPlayerMove("p1", 0, now)

		require.ErrorIs(t, err, apperror.ErrGameIsNotStarted)
	})

	t.Run("Unknown player", func(t *testing.T) {
		room := newFullRoom(t)

		_, err := room.ApplyPlayerMove("ghost", 0, now)

		require.ErrorIs(t, err, apperror.ErrNotInRoom)
	})

	t.Run("Vertical four wins and finishes the game", func(t *testing.T) {
		room := newFullRoom(t)
		for _, step := range []struct {
			id  string
			col int
		}{{"p1", 0}, {"p2", 1}, {"p1", 0}, {"p2", 1}, {"p1", 0}, {"p2", 1}} {
			_, err := room.ApplyPlayerMove(step.id, step.col, now)
			require.NoError(t, err)
		}

		_, err := room.ApplyPlayerMove("p1", 0, now)
		require.NoError(t, err)

		assert.True(t, room.Game.GameOver)
		assert.Equal(t, connectfour.SeatOne, room.Game.Winner)
		assert.Equal(t, StatusFinished, room.Status())
		assert.Equal(t, connectfour.SeatTwo, room.Game.CurrentPlayer)

		_, err = room.ApplyPlayerMove("p2", 3, now)
		require.ErrorIs(t, err, apperror.ErrGameFinished)
	})

	t.Run("Filling the board without a line is a draw", func(t *testing.T) {
		// Given: a board one token short of a drawn position, seat two to move
		room := newFullRoom(t)
		room.Game.Board = connectfour.Board{
			{0, 1, 2, 1, 2, 2, 1},
			{1, 1, 2, 2, 2, 1, 2},
			{2, 2, 1, 2, 2, 2, 1},
			{1, 1, 1, 2, 1, 1, 1},
			{2, 1, 1, 1, 2, 1, 2},
			{2, 1, 2, 1, 2, 1, 2},
		}
		room.Game.CurrentPlayer = connectfour.SeatTwo

		// When: seat two fills the last cell
		move, err := room.ApplyPlayerMove("p2", 0, now)

		// Then: the game is over without a winner
		require.NoError(t, err)
		assert.Equal(t, 0, move.Row)
		assert.True(t, room.Game.GameOver)
		assert.True(t, room.Game.IsDraw())
		assert.Equal(t, connectfour.NoSeat, room.Game.Winner)
	})
}

func TestRoom_Reset(t *testing.T) {
	t.Run("Reset is allowed mid game by either player", func(t *testing.T) {
		// Given: a game in progress
		room := newFullRoom(t)
		_, err := room.ApplyPlayerMove("p1", 3, now)
		require.NoError(t, err)

		// When: the game is reset without the opponent's consent
		later := now.Add(time.Minute)
		room.Reset(later)

		// Then: a fresh game starts with player 1 to move
		assert.Equal(t, NewGameState(), room.Game)
		assert.Equal(t, StatusInProgress, room.Status())
		assert.Equal(t, later, room.UpdatedAt)
	})

	t.Run("Reset reopens a finished game", func(t *testing.T) {
		room := newFullRoom(t)
		room.Game.GameOver = true
		room.Game.Winner = connectfour.SeatTwo
		require.Equal(t, StatusFinished, room.Status())

		room.Reset(now)

		assert.Equal(t, StatusInProgress, room.Status())
	})
}

func TestRoom_RemovePlayer(t *testing.T) {
	room := newFullRoom(t)

	removed, ok := room.RemovePlayer("p1", now)
	require.True(t, ok)
	assert.Equal(t, "p1", removed.ID)
	assert.Equal(t, StatusWaitingForPlayer, room.Status())
	assert.False(t, room.IsEmpty())

	_, ok = room.RemovePlayer("p1", now)
	assert.False(t, ok)

	_, ok = room.RemovePlayer("p2", now)
	require.True(t, ok)
	assert.True(t, room.IsEmpty())
}

func TestRoom_Snapshot(t *testing.T) {
	room := newFullRoom(t)
	_, err := room.ApplyPlayerMove("p1", 3, now)
	require.NoError(t, err)

	snapshot := room.Snapshot()

	assert.Equal(t, "ABC123", snapshot.ID)
	assert.Equal(t, StatusInProgress, snapshot.Status)
	assert.Equal(t, 1, snapshot.MoveCount)
	assert.Equal(t, connectfour.SeatTwo, snapshot.CurrentPlayer)
	require.Len(t, snapshot.Players, 2)
	assert.Equal(t, "alice", snapshot.Players[0].Name)
	assert.Equal(t, connectfour.SeatTwo, snapshot.Players[1].Seat)
}
