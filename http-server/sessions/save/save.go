package save

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type Tracker interface {
	CreateSession(ctx context.Context, date string, operatorID, marketplaceID int64, numOrders, packersCount int) (int64, error)
}

type Request struct {
	Date          string `json:"date,omitempty"`
	OperatorID    int64  `json:"operator_id"`
	MarketplaceID int64  `json:"marketplace_id"`
	NumOrders     int    `json:"num_orders"`
	PackersCount  int    `json:"packers_count"`
}

type Response struct {
	ID int64 `json:"id"`
}

// SaveSession creates a new lot. The order count must be positive and at
// least one packer must be assigned; every stage row is pre-created with the
// session in the same transaction.
func SaveSession(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.save.SaveSession"

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to decode request")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := tracker.CreateSession(ctx, req.Date, req.OperatorID, req.MarketplaceID, req.NumOrders, req.PackersCount)
		if err != nil {
			if errors.Is(err, storage.ErrInvalidSession) {
				log.With(slog.String("op", op), slog.Int("num_orders", req.NumOrders), slog.Int("packers_count", req.PackersCount)).Warn("invalid session rejected")
				http.Error(w, "num_orders must be > 0 and packers_count >= 1", http.StatusUnprocessableEntity)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to create session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, Response{ID: id})
	}
}
