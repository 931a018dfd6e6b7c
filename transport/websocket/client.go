package websocket

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	ErrConnectionClosed = errors.New("connection is closed")
	ErrSlowConsumer     = errors.New("send buffer is full")
)

// client is one upgraded connection. The dispatcher sees it as a dispatcher.Connection.
type client struct {
	id      string
	conn    *websocket.Conn
	options Options
	logger  *slog.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(id string, conn *websocket.Conn, options Options, logger *slog.Logger) *client {
	return &client{
		id:      id,
		conn:    conn,
		options: options,
		logger:  logger.With("connID", id),

		send: make(chan []byte, options.SendBuffer),
		done: make(chan struct{}),
	}
}

func (that *client) ID() string {
	return that.id
}

// Send queues data without blocking. A client that cannot keep up is dropped.
func (that *client) Send(data []byte) error {
	select {
	case <-that.done:
		return ErrConnectionClosed
	default:
	}

	select {
	case that.send <- data:
		return nil
	default:
		that.close()
		return ErrSlowConsumer
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

// readPump forwards frames to the hub until the peer goes away, then reports the disconnect.
func (that *client) readPump(hub hub) {
	log := that.logger.With("method", "readPump")

	defer func() {
		hub.Disconnect(that)
		that.close()
		_ = that.conn.Close()
	}()

	that.conn.SetReadLimit(that.options.MaxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(that.options.PongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(that.options.PongWait))
	})

	for {
		messageType, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("connection closed unexpectedly", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			log.Debug("ignoring non-text frame", "type", messageType)
			continue
		}

		hub.Receive(that, data)
	}
}

// writePump owns all writes on the connection.
func (that *client) writePump() {
	log := that.logger.With("method", "writePump")

	ticker := time.NewTicker(that.options.pingPeriod())
	defer func() {
		ticker.Stop()
		_ = that.conn.Close()
	}()

	for {
		select {
		case data := <-that.send:
			if err := that.write(websocket.TextMessage, data); err != nil {
				log.Warn("failed to write message", "error", err)
				that.close()
				return
			}
		case <-ticker.C:
			if err := that.write(websocket.PingMessage, nil); err != nil {
				that.close()
				return
			}
		case <-that.done:
			that.flush()
			_ = that.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

// flush writes whatever was queued before the client was closed.
func (that *client) flush() {
	for {
		select {
		case data := <-that.send:
			if err := that.write(websocket.TextMessage, data); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (that *client) write(messageType int, data []byte) error {
	if err := that.conn.SetWriteDeadline(time.Now().Add(that.options.WriteWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err := that.conn.WriteMessage(messageType, data); err != nil {
		return fmt.Errorf("failed to write frame: %w", err)
	}

	return nil
}
