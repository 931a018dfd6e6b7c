package websocket

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-backend/internal/dispatcher"
)

const shutdownTimeout = 5 * time.Second

type hub interface {
	Connect(conn dispatcher.Connection)
	Receive(conn dispatcher.Connection, data []byte)
	Disconnect(conn dispatcher.Connection)
}

type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration

	// AllowedOrigins empty accepts any origin.
	AllowedOrigins []string
}

func (that Options) withDefaults() Options {
	if that.SendBuffer <= 0 {
		that.SendBuffer = 32
	}

	if that.MaxMessageSize <= 0 {
		that.MaxMessageSize = 4096
	}

	if that.WriteWait <= 0 {
		that.WriteWait = 10 * time.Second
	}

	if that.PongWait <= 0 {
		that.PongWait = 60 * time.Second
	}

	return that
}

// pingPeriod must stay below PongWait.
func (that Options) pingPeriod() time.Duration {
	return that.PongWait * 9 / 10
}

type Server struct {
	logger   *slog.Logger
	hub      hub
	options  Options
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

func New(logger *slog.Logger, hub hub, options Options) *Server {
	server := &Server{
		logger:  logger,
		hub:     hub,
		options: options.withDefaults(),

		clients: make(map[*client]struct{}),
	}

	server.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     server.checkOrigin,
	}

	return server
}

// Handler accepts upgrades on / and /ws.
func (that *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", that.upgradeToWebSocket)
	mux.HandleFunc("/ws", that.upgradeToWebSocket)

	return mux
}

// Start - starts WebSocket server and blocks until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           that.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	that.CloseAll()

	if err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err = <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}

// CloseAll closes every open client. Hijacked connections are not closed by http.Server.Shutdown.
func (that *Server) CloseAll() {
	that.mu.Lock()
	clients := make([]*client, 0, len(that.clients))
	for c := range that.clients {
		clients = append(clients, c)
	}
	that.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "error", err, "remote", req.RemoteAddr)
		return
	}

	c := newClient(uuid.NewString(), conn, that.options, that.logger)

	that.mu.Lock()
	that.clients[c] = struct{}{}
	that.mu.Unlock()

	log.Info("WebSocket connection established", "connID", c.id, "remote", req.RemoteAddr)

	that.hub.Connect(c)

	go c.writePump()
	go func() {
		c.readPump(that.hub)

		that.mu.Lock()
		delete(that.clients, c)
		that.mu.Unlock()
	}()
}

func (that *Server) checkOrigin(req *http.Request) bool {
	if len(that.options.AllowedOrigins) == 0 {
		return true
	}

	origin := req.Header.Get("Origin")
	if origin == "" {
		return true
	}

	return slices.Contains(that.options.AllowedOrigins, origin)
}
