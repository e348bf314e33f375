package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type SessionRemover interface {
	DeleteSession(ctx context.Context, id int64) error
}

// RemoveSession deletes a lot and its stage rows for good. Unlike operators
// and marketplaces there is no soft delete here: a removed lot disappears
// from the KPIs as well.
func RemoveSession(log *slog.Logger, remover SessionRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.sessions.remove.RemoveSession"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := remover.DeleteSession(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("session not found")
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error())).Error("failed to delete session")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
