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

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type Tracker interface {
	GetSession(ctx context.Context, id int64) (*storage.Session, error)
	ListToday(ctx context.Context, operatorID, marketplaceID *int64) ([]storage.SessionStatus, error)
}

func GetSession(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.get.GetSession"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		session, err := tracker.GetSession(ctx, id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("session not found")
				http.Error(w, "Session not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to fetch session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, session)
	}
}

// GetSessionsToday lists today's lots with stage completion counters, so the
// frontend can split them into active and finished.
func GetSessionsToday(log *slog.Logger, tracker Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.get.GetSessionsToday"

		operatorID, err := optionalID(r, "operator_id")
		if err != nil {
			http.Error(w, "Invalid operator_id", http.StatusBadRequest)
			return
		}
		marketplaceID, err := optionalID(r, "marketplace_id")
		if err != nil {
			http.Error(w, "Invalid marketplace_id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sessions, err := tracker.ListToday(ctx, operatorID, marketplaceID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list today's sessions")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if sessions == nil {
			sessions = []storage.SessionStatus{}
		}
		render.JSON(w, r, sessions)
	}
}

func optionalID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
