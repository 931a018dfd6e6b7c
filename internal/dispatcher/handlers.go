package dispatcher

import (
	"context"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/protocol"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
)

func (that *Dispatcher) handleMessage(ctx context.Context, conn Connection, data []byte) {
	log := that.logger.With("method", "handleMessage", "connID", conn.ID())

	inbound, err := protocol.Decode(data)
	if err != nil {
		log.Warn("dropping undecodable message", "error", err)
		return
	}

	switch msg := inbound.(type) {
	case protocol.CreateRoom:
		err = that.createRoom(ctx, conn, msg)
	case protocol.JoinRoom:
		err = that.joinRoom(ctx, conn, msg)
	case protocol.GameMove:
		err = that.gameMove(ctx, conn, msg)
	case protocol.GameReset:
		err = that.gameReset(ctx, conn)
	case protocol.LeaveRoom:
		that.leave(ctx, conn, that.sessions.Leave)
	case protocol.Unrecognized:
		log.Warn("unknown message type", "type", msg.Type)
	}

	if err != nil {
		log.Info("request rejected", "error", err)
		that.metrics.RequestFailed(apperror.Code(err))
		that.send(conn, protocol.NewError(err))
	}
}

func (that *Dispatcher) createRoom(ctx context.Context, conn Connection, msg protocol.CreateRoom) error {
	room, player, err := that.sessions.CreateRoom(conn.ID(), msg.Username)
	if err != nil {
		return err
	}

	that.metrics.RoomsCreated.Inc()
	that.metrics.LiveRooms.Inc()

	that.send(conn, protocol.NewRoomCreated(room, player))
	that.saveSnapshot(ctx, room)

	return nil
}

func (that *Dispatcher) joinRoom(ctx context.Context, conn Connection, msg protocol.JoinRoom) error {
	room, player, started, err := that.sessions.JoinRoom(conn.ID(), msg.RoomID, msg.Username)
	if err != nil {
		return err
	}

	that.send(conn, protocol.NewRoomJoined(room, player))
	that.broadcast(room.Players(), player.ID, protocol.NewPlayerJoined(room, player))

	if started {
		that.broadcast(room.Players(), "", protocol.NewGameStart(room))
	}

	that.saveSnapshot(ctx, room)

	return nil
}

func (that *Dispatcher) gameMove(ctx context.Context, conn Connection, msg protocol.GameMove) error {
	// a missing column is judged after seat and turn checks
	column := -1
	if msg.Column != nil {
		column = *msg.Column
	}

	room, player, move, err := that.sessions.Move(conn.ID(), column)
	if err != nil {
		return err
	}

	that.metrics.Moves.Inc()
	if room.Game.GameOver {
		that.metrics.GameFinished(room.Game.IsDraw())
	}

	that.broadcast(room.Players(), "", protocol.NewGameMoved(room, player, move))
	that.saveSnapshot(ctx, room)

	return nil
}

func (that *Dispatcher) gameReset(ctx context.Context, conn Connection) error {
	room, err := that.sessions.Reset(conn.ID())
	if err != nil {
		return err
	}

	that.broadcast(room.Players(), "", protocol.NewGameWasReset(room))
	that.saveSnapshot(ctx, room)

	return nil
}

// leave runs an explicit leave or a disconnect. A connection without a seat is ignored.
func (that *Dispatcher) leave(ctx context.Context, conn Connection, depart func(string) (*usecase.Departure, bool)) {
	departure, ok := depart(conn.ID())
	if !ok {
		return
	}

	that.broadcast(departure.Remaining, "", protocol.NewPlayerLeft(departure.Player, departure.Remaining))

	if departure.GameReset {
		that.broadcast(departure.Remaining, "", protocol.NewGameWasReset(departure.Room))
	}

	if departure.RoomClosed {
		that.metrics.LiveRooms.Dec()
		that.deleteSnapshot(ctx, departure.Room.ID)

		return
	}

	that.saveSnapshot(ctx, departure.Room)
}

func (that *Dispatcher) send(conn Connection, msg any) {
	log := that.logger.With("method", "send", "connID", conn.ID())

	data, err := protocol.Encode(msg)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	if err = conn.Send(data); err != nil {
		log.Warn("failed to deliver message", "error", err)
	}
}

// broadcast delivers msg to every listed player except excludeID.
func (that *Dispatcher) broadcast(players []*entity.Player, excludeID string, msg any) {
	log := that.logger.With("method", "broadcast")

	data, err := protocol.Encode(msg)
	if err != nil {
		log.Error("failed to encode message", "error", err)
		return
	}

	for _, player := range players {
		if player.ID == excludeID {
			continue
		}

		conn, ok := that.conns[player.ConnID]
		if !ok {
			continue
		}

		if err = conn.Send(data); err != nil {
			log.Warn("failed to deliver message", "connID", conn.ID(), "playerID", player.ID, "error", err)
		}
	}
}

func (that *Dispatcher) saveSnapshot(ctx context.Context, room *entity.Room) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	if err := that.store.CreateOrUpdate(ctx, room.Snapshot()); err != nil {
		that.logger.Error("failed to save room snapshot", "method", "saveSnapshot", "roomID", room.ID, "error", err)
	}
}

func (that *Dispatcher) deleteSnapshot(ctx context.Context, roomID string) {
	ctx, cancel := context.WithTimeout(ctx, snapshotTimeout)
	defer cancel()

	if err := that.store.DeleteByID(ctx, roomID); err != nil {
		that.logger.Error("failed to delete room snapshot", "method", "deleteSnapshot", "roomID", roomID, "error", err)
	}
}
