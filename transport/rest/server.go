package rest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	logger   *slog.Logger
	rooms    roomReader
	stats    statsReader
	gatherer prometheus.Gatherer
}

func New(logger *slog.Logger, rooms roomReader, stats statsReader, gatherer prometheus.Gatherer) *Server {
	return &Server{
		logger:   logger,
		rooms:    rooms,
		stats:    stats,
		gatherer: gatherer,
	}
}

func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/ping", that.pingHandler).Methods(http.MethodGet)
	router.HandleFunc("/rooms/{id}", that.roomHandler).Methods(http.MethodGet)
	router.HandleFunc("/stats", that.statsHandler).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(that.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return router
}

// Start - starts HTTP server and blocks until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
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

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server stopped with error: %w", err)
	}

	return nil
}
