package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/moraesvn/projeto-estoque/internal/service/tracking"
	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type Tracker interface {
	StageTimes(ctx context.Context, sessionID int64) ([]tracking.StageView, error)
}

// GetStageTimes returns every stage of a lot with its timer state: start/end
// timestamps, status and, once completed, the elapsed duration.
func GetStageTimes(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.stages.get.GetStageTimes"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stages, err := tracker.StageTimes(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("session not found")
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to fetch stage times")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, stages)
	}
}
