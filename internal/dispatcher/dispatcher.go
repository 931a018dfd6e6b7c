package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/metrics"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
)

const (
	eventBuffer     = 256
	snapshotTimeout = 2 * time.Second
)

var ErrStopped = errors.New("dispatcher is stopped")

// Connection is the gateway side of one client. Send must not block.
type Connection interface {
	ID() string
	Send(data []byte) error
}

type sessions interface {
	CreateRoom(connID, username string) (*entity.Room, *entity.Player, error)
	JoinRoom(connID, roomID, username string) (*entity.Room, *entity.Player, bool, error)
	Move(connID string, column int) (*entity.Room, *entity.Player, entity.Move, error)
	Reset(connID string) (*entity.Room, error)
	Leave(connID string) (*usecase.Departure, bool)
	Disconnect(connID string) (*usecase.Departure, bool)
	Stats() usecase.Stats
}

type SnapshotStore interface {
	CreateOrUpdate(ctx context.Context, snapshot *entity.RoomSnapshot) error
	DeleteByID(ctx context.Context, id string) error
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
	eventStats
)

type event struct {
	kind  eventKind
	conn  Connection
	data  []byte
	reply chan usecase.Stats
}

// Dispatcher runs every registry and room mutation on a single goroutine, one event at a time.
type Dispatcher struct {
	logger   *slog.Logger
	sessions sessions
	store    SnapshotStore
	metrics  *metrics.Metrics

	events chan event
	done   chan struct{}

	// owned by the Run goroutine
	conns map[string]Connection
}

func New(logger *slog.Logger, sessions sessions, store SnapshotStore, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		logger:   logger,
		sessions: sessions,
		store:    store,
		metrics:  m,

		events: make(chan event, eventBuffer),
		done:   make(chan struct{}),

		conns: make(map[string]Connection),
	}
}

// Run processes events until ctx is canceled. It must be called exactly once.
func (that *Dispatcher) Run(ctx context.Context) error {
	log := that.logger.With("method", "Run")
	defer close(that.done)

	log.Info("dispatcher started")

	for {
		select {
		case <-ctx.Done():
			log.Info("dispatcher stopped")
			return nil
		case ev := <-that.events:
			that.handle(ctx, ev)
		}
	}
}

func (that *Dispatcher) Connect(conn Connection) {
	that.enqueue(event{kind: eventConnect, conn: conn})
}

// Receive queues one raw client frame for conn.
func (that *Dispatcher) Receive(conn Connection, data []byte) {
	that.enqueue(event{kind: eventMessage, conn: conn, data: data})
}

// Disconnect tears down whatever conn held. Transport errors take the same path.
func (that *Dispatcher) Disconnect(conn Connection) {
	that.enqueue(event{kind: eventDisconnect, conn: conn})
}

// Stats is answered by the loop, after every event queued before it.
func (that *Dispatcher) Stats(ctx context.Context) (usecase.Stats, error) {
	reply := make(chan usecase.Stats, 1)

	select {
	case that.events <- event{kind: eventStats, reply: reply}:
	case <-that.done:
		return usecase.Stats{}, ErrStopped
	case <-ctx.Done():
		return usecase.Stats{}, fmt.Errorf("failed to queue stats request: %w", ctx.Err())
	}

	select {
	case stats := <-reply:
		return stats, nil
	case <-that.done:
		return usecase.Stats{}, ErrStopped
	case <-ctx.Done():
		return usecase.Stats{}, fmt.Errorf("failed to wait for stats: %w", ctx.Err())
	}
}

func (that *Dispatcher) enqueue(ev event) {
	select {
	case that.events <- ev:
	case <-that.done:
		that.logger.Debug("event dropped after shutdown", "method", "enqueue", "kind", int(ev.kind))
	}
}

func (that *Dispatcher) handle(ctx context.Context, ev event) {
	switch ev.kind {
	case eventConnect:
		that.conns[ev.conn.ID()] = ev.conn
		that.metrics.Connections.Inc()
	case eventMessage:
		that.handleMessage(ctx, ev.conn, ev.data)
	case eventDisconnect:
		if _, ok := that.conns[ev.conn.ID()]; !ok {
			return
		}
		that.leave(ctx, ev.conn, that.sessions.Disconnect)
		delete(that.conns, ev.conn.ID())
		that.metrics.Connections.Dec()
	case eventStats:
		ev.reply <- that.sessions.Stats()
	}
}
