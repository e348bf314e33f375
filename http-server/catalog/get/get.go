package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

type Catalog interface {
	ListOperators(ctx context.Context, activeOnly bool) ([]storage.CatalogEntry, error)
	ListMarketplaces(ctx context.Context, activeOnly bool) ([]storage.CatalogEntry, error)
}

func list(log *slog.Logger, op string, fetch func(context.Context) ([]storage.CatalogEntry, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		entries, err := fetch(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list catalog entries")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if entries == nil {
			entries = []storage.CatalogEntry{}
		}
		render.JSON(w, r, entries)
	}
}

// GetOperators returns the active operators for the selection boxes.
func GetOperators(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return list(log, "handlers.catalog.get.GetOperators", func(ctx context.Context) ([]storage.CatalogEntry, error) {
		return catalog.ListOperators(ctx, true)
	})
}

func GetMarketplaces(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return list(log, "handlers.catalog.get.GetMarketplaces", func(ctx context.Context) ([]storage.CatalogEntry, error) {
		return catalog.ListMarketplaces(ctx, true)
	})
}

// Admin variants include deactivated entries.
func GetOperatorsAdmin(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return list(log, "handlers.catalog.get.GetOperatorsAdmin", func(ctx context.Context) ([]storage.CatalogEntry, error) {
		return catalog.ListOperators(ctx, false)
	})
}

func GetMarketplacesAdmin(log *slog.Logger, catalog Catalog) http.HandlerFunc {
	return list(log, "handlers.catalog.get.GetMarketplacesAdmin", func(ctx context.Context) ([]storage.CatalogEntry, error) {
		return catalog.ListMarketplaces(ctx, false)
	})
}
