package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type Settings interface {
	GetSetting(ctx context.Context, key string) (string, error)
}

type Response struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// GetSetting returns a setting value; an unset key yields an empty value, not
// a 404, since settings are optional thresholds.
func GetSetting(log *slog.Logger, settings Settings) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.settings.get.GetSetting"

		key := chi.URLParam(r, "key")
		if key == "" {
			http.Error(w, "Missing key", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		value, err := settings.GetSetting(ctx, key)
		if err != nil {
			log.With(slog.String("op", op), slog.String("key", key), slog.String("error", err.Error())).Error("failed to fetch setting")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{Key: key, Value: value})
	}
}
