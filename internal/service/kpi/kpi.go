package kpi

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/moraesvn/projeto-estoque/internal/service/timeline"
	"github.com/moraesvn/projeto-estoque/internal/storage"
)

// SettingTargetOrdersPerHour is the settings key holding the throughput goal.
const SettingTargetOrdersPerHour = "target_orders_per_hour"

// Target comparison classes for the orders-per-hour card.
const (
	TargetAbove = "above_target"
	TargetBelow = "below_target"
	TargetOn    = "on_target"
)

type Storage interface {
	FetchEndToEndSpans(ctx context.Context, f storage.KPIFilter) ([]storage.EndToEndSpan, error)
	FetchTotalOrders(ctx context.Context, f storage.KPIFilter) (int64, error)
	FetchDailyStageDurations(ctx context.Context, f storage.KPIFilter) ([]storage.DailyStageDuration, error)
	FetchStageTotalsAndOrders(ctx context.Context, f storage.KPIFilter) ([]storage.StageTotals, error)
	GetSetting(ctx context.Context, key string) (string, error)
}

// Service derives throughput metrics for a filtered date range. Whole-lot
// metrics run the end-to-end spans through the per-day union so concurrent
// lots are not double-counted; the per-stage breakdown keeps the plain sums
// the reports always showed.
type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

type OrdersPerHourCard struct {
	OrdersPerHour int     `json:"orders_per_hour"`
	Rate          float64 `json:"rate"`
	TotalOrders   int64   `json:"total_orders"`
	ActiveSeconds int64   `json:"active_seconds"`
	// Target fields are omitted when no target setting is configured.
	Target       *float64 `json:"target,omitempty"`
	TargetDelta  *float64 `json:"target_delta,omitempty"`
	TargetStatus string   `json:"target_status,omitempty"`
}

type DayActive struct {
	Day           string `json:"day"`
	ActiveSeconds int64  `json:"active_seconds"`
	ActiveTime    string `json:"active_time"`
}

type Overview struct {
	OrdersPerHour         OrdersPerHourCard `json:"orders_per_hour"`
	AvgDailyActiveSeconds int64             `json:"avg_daily_active_seconds"`
	AvgDailyActiveTime    string            `json:"avg_daily_active_time"`
	AvgSecondsPerOrder    int64             `json:"avg_seconds_per_order"`
	AvgTimePerOrder       string            `json:"avg_time_per_order"`
	DailyActive           []DayActive       `json:"daily_active"`
}

// Overview computes the metric cards and the per-day active-time series. An
// empty result set yields zero-valued metrics, never an error.
func (s *Service) Overview(ctx context.Context, f storage.KPIFilter) (*Overview, error) {
	const op = "service.kpi.Overview"

	var (
		spans       []storage.EndToEndSpan
		totalOrders int64
		targetRaw   string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spans, err = s.storage.FetchEndToEndSpans(gCtx, f)
		if err != nil {
			return fmt.Errorf("spans: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		totalOrders, err = s.storage.FetchTotalOrders(gCtx, f)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		targetRaw, err = s.storage.GetSetting(gCtx, SettingTargetOrdersPerHour)
		if err != nil {
			return fmt.Errorf("target setting: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	activeByDay, err := timeline.ActiveSecondsByDay(spans)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	activeSeconds := timeline.TotalActiveSeconds(activeByDay)

	card := ordersPerHourCard(totalOrders, activeSeconds, targetRaw)
	avgDaily := avgDailyActiveSeconds(activeByDay)
	avgPerOrder := avgSecondsPerOrder(activeSeconds, totalOrders)

	return &Overview{
		OrdersPerHour:         card,
		AvgDailyActiveSeconds: avgDaily,
		AvgDailyActiveTime:    FormatHHMMSS(avgDaily),
		AvgSecondsPerOrder:    avgPerOrder,
		AvgTimePerOrder:       FormatHHMMSS(avgPerOrder),
		DailyActive:           dailySeries(activeByDay),
	}, nil
}

type StageTotalsRow struct {
	Stage              string  `json:"stage"`
	TotalSeconds       float64 `json:"total_seconds"`
	TotalTime          string  `json:"total_time"`
	TotalOrders        float64 `json:"total_orders"`
	AvgSecondsPerOrder float64 `json:"avg_seconds_per_order"`
}

type StageBreakdown struct {
	Totals []StageTotalsRow             `json:"totals"`
	Daily  []storage.DailyStageDuration `json:"daily"`
}

// StageBreakdown returns the naive per-stage totals and per-day series. These
// sums do not merge overlapping lots: a second spent in two concurrent lots
// counts twice here, unlike the union-based Overview metrics.
func (s *Service) StageBreakdown(ctx context.Context, f storage.KPIFilter) (*StageBreakdown, error) {
	const op = "service.kpi.StageBreakdown"

	var (
		totals []storage.StageTotals
		daily  []storage.DailyStageDuration
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.storage.FetchStageTotalsAndOrders(gCtx, f)
		if err != nil {
			return fmt.Errorf("totals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		daily, err = s.storage.FetchDailyStageDurations(gCtx, f)
		if err != nil {
			return fmt.Errorf("daily: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if daily == nil {
		daily = []storage.DailyStageDuration{}
	}

	return &StageBreakdown{
		Totals: stageTotalRows(totals),
		Daily:  daily,
	}, nil
}

func ordersPerHourCard(totalOrders, activeSeconds int64, targetRaw string) OrdersPerHourCard {
	card := OrdersPerHourCard{
		TotalOrders:   totalOrders,
		ActiveSeconds: activeSeconds,
	}

	if activeSeconds > 0 {
		card.Rate = float64(totalOrders) / (float64(activeSeconds) / 3600)
	}
	card.OrdersPerHour = int(math.Round(card.Rate))

	if targetRaw == "" {
		return card
	}
	target, err := strconv.ParseFloat(targetRaw, 64)
	if err != nil {
		// A malformed setting disables the comparison instead of failing the
		// whole report.
		return card
	}

	delta := card.Rate - target
	card.Target = &target
	card.TargetDelta = &delta
	switch {
	case delta > 0:
		card.TargetStatus = TargetAbove
	case delta < 0:
		card.TargetStatus = TargetBelow
	default:
		card.TargetStatus = TargetOn
	}

	return card
}

// avgDailyActiveSeconds averages only over days that have activity. Days in
// the range without any recorded span do not drag the mean down.
func avgDailyActiveSeconds(activeByDay map[string]int64) int64 {
	if len(activeByDay) == 0 {
		return 0
	}
	var total int64
	for _, seconds := range activeByDay {
		total += seconds
	}
	return int64(math.Round(float64(total) / float64(len(activeByDay))))
}

func avgSecondsPerOrder(activeSeconds, totalOrders int64) int64 {
	if activeSeconds == 0 || totalOrders == 0 {
		return 0
	}
	return int64(math.Round(float64(activeSeconds) / float64(totalOrders)))
}

func dailySeries(activeByDay map[string]int64) []DayActive {
	days := make([]string, 0, len(activeByDay))
	for day := range activeByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]DayActive, 0, len(days))
	for _, day := range days {
		series = append(series, DayActive{
			Day:           day,
			ActiveSeconds: activeByDay[day],
			ActiveTime:    FormatHHMMSS(activeByDay[day]),
		})
	}
	return series
}

// stageTotalRows zero-fills the fixed stage set so every stage appears in the
// breakdown even with no data, in display order.
func stageTotalRows(totals []storage.StageTotals) []StageTotalsRow {
	byStage := make(map[string]storage.StageTotals, len(totals))
	for _, t := range totals {
		byStage[t.Stage] = t
	}

	rows := make([]StageTotalsRow, 0, len(storage.Stages))
	for _, stage := range storage.Stages {
		t := byStage[stage]
		row := StageTotalsRow{
			Stage:        stage,
			TotalSeconds: t.TotalSeconds,
			TotalTime:    FormatHHMMSS(int64(t.TotalSeconds)),
			TotalOrders:  t.TotalOrders,
		}
		if t.TotalOrders > 0 {
			row.AvgSecondsPerOrder = t.TotalSeconds / t.TotalOrders
		}
		rows = append(rows, row)
	}
	return rows
}
