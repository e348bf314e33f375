package mysql

import (
	"context"
	"fmt"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

// sessionFilter renders the optional dimensions of a KPIFilter as parameterized
// predicates on the sessions alias "s". The date range is handled by callers.
func sessionFilter(f storage.KPIFilter) (string, []interface{}) {
	var where string
	var args []interface{}

	if f.OperatorID != nil {
		where += ` AND s.operator_id = ?`
		args = append(args, *f.OperatorID)
	}
	if f.MarketplaceID != nil {
		where += ` AND s.marketplace_id = ?`
		args = append(args, *f.MarketplaceID)
	}
	if f.PackersCount != nil {
		where += ` AND s.packers_count = ?`
		args = append(args, *f.PackersCount)
	}

	return where, args
}

// stageFilter renders the optional stage predicate on the stage_events alias
// "e". Every query that joins stage_events applies it, so filtering by stage
// narrows the breakdown and the spans alike.
func stageFilter(f storage.KPIFilter) (string, []interface{}) {
	if f.Stage == nil {
		return "", nil
	}
	return ` AND e.stage = ?`, []interface{}{*f.Stage}
}

// FetchEndToEndSpans returns one (day, start, end) span per session in range:
// the earliest start and latest end over the session's completed stages, or
// over a single stage when the filter names one. Sessions with no completed
// stage are absent from the result.
func (s *Storage) FetchEndToEndSpans(ctx context.Context, f storage.KPIFilter) ([]storage.EndToEndSpan, error) {
	const op = "storage.mysql.FetchEndToEndSpans"

	query := `
		SELECT s.date AS day, MIN(e.start_time) AS start_time, MAX(e.end_time) AS end_time
		  FROM sessions s
		  JOIN stage_events e ON e.session_id = s.id
		 WHERE s.date BETWEEN ? AND ?
		   AND e.start_time IS NOT NULL
		   AND e.end_time IS NOT NULL`
	args := []interface{}{f.Start, f.End}

	extra, extraArgs := sessionFilter(f)
	query += extra
	args = append(args, extraArgs...)

	stagePred, stageArgs := stageFilter(f)
	query += stagePred
	args = append(args, stageArgs...)

	query += ` GROUP BY s.id, s.date ORDER BY s.date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var spans []storage.EndToEndSpan
	for rows.Next() {
		var span storage.EndToEndSpan
		if err := rows.Scan(&span.Day, &span.StartTime, &span.EndTime); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		spans = append(spans, span)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return spans, nil
}

// FetchTotalOrders sums num_orders over the filtered sessions in range.
func (s *Storage) FetchTotalOrders(ctx context.Context, f storage.KPIFilter) (int64, error) {
	const op = "storage.mysql.FetchTotalOrders"

	query := `SELECT COALESCE(SUM(s.num_orders), 0) FROM sessions s WHERE s.date BETWEEN ? AND ?`
	args := []interface{}{f.Start, f.End}

	extra, extraArgs := sessionFilter(f)
	query += extra
	args = append(args, extraArgs...)

	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return total, nil
}

// FetchDailyStageDurations aggregates duration per day and stage with a plain
// SUM. Overlapping sessions double-count here; the union engine is only
// applied to the end-to-end spans.
func (s *Storage) FetchDailyStageDurations(ctx context.Context, f storage.KPIFilter) ([]storage.DailyStageDuration, error) {
	const op = "storage.mysql.FetchDailyStageDurations"

	query := `
		SELECT s.date AS day, e.stage AS stage,
		       SUM(CASE WHEN e.start_time IS NOT NULL AND e.end_time IS NOT NULL
		                THEN UNIX_TIMESTAMP(e.end_time) - UNIX_TIMESTAMP(e.start_time)
		                ELSE 0 END) AS duration_seconds
		  FROM sessions s
		  JOIN stage_events e ON e.session_id = s.id
		 WHERE s.date BETWEEN ? AND ?`
	args := []interface{}{f.Start, f.End}

	extra, extraArgs := sessionFilter(f)
	query += extra
	args = append(args, extraArgs...)

	stagePred, stageArgs := stageFilter(f)
	query += stagePred
	args = append(args, stageArgs...)

	query += ` GROUP BY s.date, e.stage ORDER BY s.date ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var durations []storage.DailyStageDuration
	for rows.Next() {
		var d storage.DailyStageDuration
		if err := rows.Scan(&d.Day, &d.Stage, &d.DurationSeconds); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		durations = append(durations, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return durations, nil
}

// FetchStageTotalsAndOrders returns naive per-stage totals and the order sum
// of the sessions each stage row belongs to. Same double-counting caveat as
// FetchDailyStageDurations.
func (s *Storage) FetchStageTotalsAndOrders(ctx context.Context, f storage.KPIFilter) ([]storage.StageTotals, error) {
	const op = "storage.mysql.FetchStageTotalsAndOrders"

	query := `
		SELECT e.stage AS stage,
		       SUM(CASE WHEN e.start_time IS NOT NULL AND e.end_time IS NOT NULL
		                THEN UNIX_TIMESTAMP(e.end_time) - UNIX_TIMESTAMP(e.start_time)
		                ELSE 0 END) AS total_seconds,
		       SUM(s.num_orders) AS total_orders
		  FROM sessions s
		  JOIN stage_events e ON e.session_id = s.id
		 WHERE s.date BETWEEN ? AND ?`
	args := []interface{}{f.Start, f.End}

	extra, extraArgs := sessionFilter(f)
	query += extra
	args = append(args, extraArgs...)

	stagePred, stageArgs := stageFilter(f)
	query += stagePred
	args = append(args, stageArgs...)

	query += ` GROUP BY e.stage`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var totals []storage.StageTotals
	for rows.Next() {
		var t storage.StageTotals
		if err := rows.Scan(&t.Stage, &t.TotalSeconds, &t.TotalOrders); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return totals, nil
}
