package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
)

type Catalog interface {
	SaveOperator(ctx context.Context, name string) (int64, error)
	SaveMarketplace(ctx context.Context, name string) (int64, error)
}

type Request struct {
	Name string `json:"name"`
}

type Response struct {
	ID int64 `json:"id"`
}

func save(log *slog.Logger, op string, persist func(context.Context, string) (int64, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to decode request")
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "Missing 'name'", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := persist(ctx, req.Name)
		if err != nil {
			log.With(slog.String("op", op), slog.String("name", req.Name), slog.String("error", err.Error())).Error("failed to save catalog entry")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, Response{ID: id})
	}
}

// SaveOperator registers an operator; re-registering an existing or
// deactivated name reactivates it and returns the same id.
func SaveOperator(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return save(log, "handlers.catalog.save.SaveOperator", catalog.SaveOperator)
}

func SaveMarketplace(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return save(log, "handlers.catalog.save.SaveMarketplace", catalog.SaveMarketplace)
}
