package update

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type Tracker interface {
	UpdateOrders(ctx context.Context, id int64, numOrders int) error
}

type Request struct {
	NumOrders int `json:"num_orders"`
}

// UpdateSessionOrders changes a lot's order count. Identity fields of a lot
// never change after creation; only the count and updated_at move.
func UpdateSessionOrders(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.update.UpdateSessionOrders"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to decode request")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := tracker.UpdateOrders(ctx, id, req.NumOrders); err != nil {
			switch {
			case errors.Is(err, storage.ErrInvalidSession):
				http.Error(w, "num_orders must be > 0", http.StatusUnprocessableEntity)
			case errors.Is(err, storage.ErrNotFound):
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("session not found")
				http.Error(w, "Session not found", http.StatusNotFound)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to update orders")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
