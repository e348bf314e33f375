package get

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/moraesvn/projeto-estoque/internal/service/kpi"
	"github.com/moraesvn/projeto-estoque/internal/storage"
)

const dateLayout = "2006-01-02"

type KPIs interface {
	Overview(ctx context.Context, f storage.KPIFilter) (*kpi.Overview, error)
	StageBreakdown(ctx context.Context, f storage.KPIFilter) (*kpi.StageBreakdown, error)
}

// ParseFilter builds the KPI filter from query parameters. Missing dates
// default to the current month so the screen opens with data; all other
// dimensions are optional.
func ParseFilter(r *http.Request) (storage.KPIFilter, error) {
	q := r.URL.Query()

	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	start := q.Get("start")
	if start == "" {
		start = startOfMonth.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, start); err != nil {
		return storage.KPIFilter{}, fmt.Errorf("invalid start date")
	}

	end := q.Get("end")
	if end == "" {
		end = now.Format(dateLayout)
	} else if _, err := time.Parse(dateLayout, end); err != nil {
		return storage.KPIFilter{}, fmt.Errorf("invalid end date")
	}

	if start > end {
		return storage.KPIFilter{}, fmt.Errorf("start date after end date")
	}

	f := storage.KPIFilter{Start: start, End: end}

	if raw := q.Get("operator_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return storage.KPIFilter{}, fmt.Errorf("invalid operator_id")
		}
		f.OperatorID = &id
	}
	if raw := q.Get("marketplace_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return storage.KPIFilter{}, fmt.Errorf("invalid marketplace_id")
		}
		f.MarketplaceID = &id
	}
	if raw := q.Get("packers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return storage.KPIFilter{}, fmt.Errorf("invalid packers")
		}
		f.PackersCount = &n
	}
	if stage := q.Get("stage"); stage != "" {
		if !storage.ValidStage(stage) {
			return storage.KPIFilter{}, fmt.Errorf("unknown stage")
		}
		f.Stage = &stage
	}

	return f, nil
}

// GetOverview serves the metric cards and the per-day active-time series.
// Whole-lot metrics are union-based: overlapping lots count once.
func GetOverview(log *slog.Logger, kpis KPIs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.kpis.get.GetOverview"

		filter, err := ParseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		overview, err := kpis.Overview(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to compute overview")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, overview)
	}
}

// GetStageBreakdown serves the per-stage tables and charts. These are plain
// sums per stage; overlapping lots are double-counted here by design.
func GetStageBreakdown(log *slog.Logger, kpis KPIs) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.kpis.get.GetStageBreakdown"

		filter, err := ParseFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		breakdown, err := kpis.StageBreakdown(ctx, filter)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to compute stage breakdown")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, breakdown)
	}
}
