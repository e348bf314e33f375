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

const timestampLayout = "2006-01-02 15:04:05"

type Tracker interface {
	StartStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error)
	EndStage(ctx context.Context, sessionID int64, stage string, at time.Time) (string, error)
}

type Request struct {
	Stage string `json:"stage"`
	// At is optional; when empty the server clock is used.
	At string `json:"at,omitempty"`
}

type Response struct {
	Stage     string `json:"stage"`
	Timestamp string `json:"timestamp"`
}

func mutate(log *slog.Logger, op string, apply func(context.Context, int64, string, time.Time) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		var at time.Time
		if req.At != "" {
			at, err = time.ParseInLocation(timestampLayout, req.At, time.Local)
			if err != nil {
				http.Error(w, "Invalid 'at' timestamp, want YYYY-MM-DD HH:MM:SS", http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ts, err := apply(ctx, id, req.Stage, at)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrInvalidStage):
				log.With(slog.String("op", op), slog.String("stage", req.Stage)).Warn("unknown stage rejected")
				http.Error(w, "Unknown stage", http.StatusBadRequest)
			case errors.Is(err, storage.ErrNotFound):
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("session not found")
				http.Error(w, "Session not found", http.StatusNotFound)
			default:
				log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to stamp stage")
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
			return
		}

		render.JSON(w, r, Response{Stage: req.Stage, Timestamp: ts})
	}
}

// StartStage stamps a stage start. Starting an already completed stage
// restarts it: the prior end timestamp is cleared.
func StartStage(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return mutate(log, "handlers.stages.update.StartStage", tracker.StartStage)
}

// EndStage stamps a stage end. Without a prior start the stage records a
// zero-length interval at the end timestamp.
func EndStage(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return mutate(log, "handlers.stages.update.EndStage", tracker.EndStage)
}
