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

type Catalog interface {
	DeactivateOperator(ctx context.Context, id int64) error
	DeactivateMarketplace(ctx context.Context, id int64) error
}

func remove(log *slog.Logger, op string, deactivate func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid id", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := deactivate(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				log.With(slog.String("op", op), slog.Int64("id", id)).Warn("entry not found")
				http.Error(w, "Not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.Int64("id", id), slog.String("error", err.Error())).Error("failed to deactivate")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveOperator deactivates the operator. The row stays because historical
// sessions reference it.
func RemoveOperator(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return remove(log, "handlers.catalog.remove.RemoveOperator", catalog.DeactivateOperator)
}

func RemoveMarketplace(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return remove(log, "handlers.catalog.remove.RemoveMarketplace", catalog.DeactivateMarketplace)
}
