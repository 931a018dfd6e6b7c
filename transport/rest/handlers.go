package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/connect4-backend/internal/apperror"
	"github.com/rocketscienceinc/connect4-backend/internal/entity"
	"github.com/rocketscienceinc/connect4-backend/internal/usecase"
)

const statsTimeout = 2 * time.Second

type roomReader interface {
	GetByID(ctx context.Context, id string) (*entity.RoomSnapshot, error)
}

type statsReader interface {
	Stats(ctx context.Context) (usecase.Stats, error)
}

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// roomHandler serves the mirrored snapshot; it never touches live registry state.
func (that *Server) roomHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "roomHandler")

	id := usecase.NormalizeRoomID(mux.Vars(r)["id"])

	snapshot, err := that.rooms.GetByID(r.Context(), id)
	if errors.Is(err, apperror.ErrRoomNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{
			Message: apperror.Message(err),
			Code:    apperror.Code(err),
		})
		return
	}

	if err != nil {
		log.Error("failed to get room snapshot", "roomID", id, "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{
			Message: apperror.Message(err),
			Code:    apperror.CodeInternal,
		})
		return
	}

	that.writeJSON(w, http.StatusOK, snapshot)
}

func (that *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "statsHandler")

	ctx, cancel := context.WithTimeout(r.Context(), statsTimeout)
	defer cancel()

	stats, err := that.stats.Stats(ctx)
	if err != nil {
		log.Error("failed to get stats", "error", err)
		that.writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Message: "stats are unavailable",
			Code:    apperror.CodeInternal,
		})
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to encode response", "method", "writeJSON", "error", err)
	}
}
