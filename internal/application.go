package application

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/rocketscienceinc/connect4-backend/internal/config"
	"github.com/rocketscienceinc/connect4-backend/internal/dispatcher"
	"github.com/rocketscienceinc/connect4-backend/internal/metrics"
	"github.com/rocketscienceinc/connect4-backend/internal/repository"
	"github.com/rocketscienceinc/connect4-backend/internal/repository/storage"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
	"github.com/rocketscienceinc/connect4-backend/transport/rest"
	"github.com/rocketscienceinc/connect4-backend/transport/websocket"
)

// RunApp - runs the application until ctx is canceled or SIGINT/SIGTERM arrives.
func RunApp(ctx context.Context, logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	roomRepo, closeStore, err := newRoomRepository(ctx, logger, conf.Redis)
	if err != nil {
		return err
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(reg)

	registry := usecase.NewSessionRegistry(logger,
		usecase.WithCodeGenerator(usecase.NewRandomCodeGenerator(conf.Room.CodeLength, conf.Room.CodeAlphabet)),
		usecase.WithMaxNameLength(conf.Room.MaxNameLength),
		usecase.WithCloseOnLeave(!conf.Room.KeepOnLeave),
	)
	hub := dispatcher.New(logger, registry, roomRepo, appMetrics)

	wsServer := websocket.New(logger, hub, websocket.Options{
		SendBuffer:     conf.WebSocket.SendBuffer,
		MaxMessageSize: conf.WebSocket.MaxMessageSize,
		WriteWait:      conf.WebSocket.WriteWait,
		PongWait:       conf.WebSocket.PongWait,
		AllowedOrigins: conf.WebSocket.AllowedOrigins,
	})
	restServer := rest.New(logger, roomRepo, hub, reg)

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return hub.Run(ctx)
	})

	group.Go(func() error {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := restServer.Start(ctx, conf.HTTPPort); httpErr != nil {
			return fmt.Errorf("HTTP server error: %w", httpErr)
		}
		return nil
	})

	group.Go(func() error {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			return fmt.Errorf("WebSocket server error: %w", wsErr)
		}
		return nil
	})

	err = group.Wait()
	log.Info("Application stopped")

	return err
}

func newRoomRepository(ctx context.Context, logger *slog.Logger, conf config.Redis) (repository.RoomRepository, func(), error) {
	log := logger.With("component", "app", "method", "newRoomRepository")

	if !conf.Enabled {
		log.Info("redis disabled, keeping room snapshots in memory")
		return repository.NewMemoryRoomRepository(), func() {}, nil
	}

	redisStorage, err := storage.NewRedisStorage(ctx, conf.GetRedisAddr(), conf.Password, conf.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to redis storage: %w", err)
	}

	closeStore := func() {
		if err := redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}

	return repository.NewRoomRepository(redisStorage.Connection, conf.SnapshotTTL), closeStore, nil
}
