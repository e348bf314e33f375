package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Settings interface {
	SetSetting(ctx context.Context, key, value string) error
}

type Request struct {
	Value string `json:"value"`
}

// SaveSetting upserts a setting value under its key.
func SaveSetting(log *slog.Logger, settings Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settings.save.SaveSetting"

		key := chi.URLParam(r, "key")
		if key == "" {
			http.Error(w, "Missing key", http.StatusBadRequest)
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

		if err := settings.SetSetting(ctx, key, req.Value); err != nil {
			log.With(slog.String("op", op), slog.String("key", key), slog.String("error", err.Error())).Error("failed to save setting")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
