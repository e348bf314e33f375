package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

// StartStage stamps a stage's start and clears its end, restarting the timer
// when the stage was already completed. The parent session's updated_at is
// touched in the same transaction.
func (s *Storage) StartStage(ctx context.Context, sessionID int64, stage, at string) error {
	const op = "storage.mysql.StartStage"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := ensureStageRow(ctx, tx, sessionID, stage); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE stage_events SET start_time = ?, end_time = NULL WHERE session_id = ? AND stage = ?`,
		at, sessionID, stage,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := touchSession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// EndStage stamps a stage's end. A missing start is backfilled with the same
// timestamp, so an end without a start records a zero duration instead of a
// negative one.
func (s *Storage) EndStage(ctx context.Context, sessionID int64, stage, at string) error {
	const op = "storage.mysql.EndStage"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if err := ensureStageRow(ctx, tx, sessionID, stage); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE stage_events
		    SET start_time = COALESCE(start_time, ?),
		        end_time = ?
		  WHERE session_id = ? AND stage = ?`,
		at, at, sessionID, stage,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := touchSession(ctx, tx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return nil
}

// ensureStageRow guarantees the (session, stage) row exists. Rows are
// pre-created with the session, so this only matters for sessions created
// before a stage was added to the set.
func ensureStageRow(ctx context.Context, tx *sql.Tx, sessionID int64, stage string) error {
	var exists int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session id=%d: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT IGNORE INTO stage_events (session_id, stage) VALUES (?, ?)`,
		sessionID, stage,
	)
	return err
}

func touchSession(ctx context.Context, tx *sql.Tx, sessionID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE sessions SET updated_at = ? WHERE id = ?`, isoNow(), sessionID)
	return err
}

// GetStageTimes returns the start/end pair of every stage of a session, in
// the fixed stage order.
func (s *Storage) GetStageTimes(ctx context.Context, sessionID int64) ([]storage.StageTimes, error) {
	const op = "storage.mysql.GetStageTimes"

	rows, err := s.db.QueryContext(ctx,
		`SELECT stage, start_time, end_time FROM stage_events WHERE session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	byStage := make(map[string]storage.StageTimes, len(storage.Stages))
	for rows.Next() {
		var st storage.StageTimes
		var start, end sql.NullString

		if err := rows.Scan(&st.Stage, &start, &end); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		if start.Valid {
			st.StartTime = &start.String
		}
		if end.Valid {
			st.EndTime = &end.String
		}
		byStage[st.Stage] = st
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(byStage) == 0 {
		return nil, fmt.Errorf("%s: session id=%d: %w", op, sessionID, storage.ErrNotFound)
	}

	times := make([]storage.StageTimes, 0, len(storage.Stages))
	for _, stage := range storage.Stages {
		st, ok := byStage[stage]
		if !ok {
			st = storage.StageTimes{Stage: stage}
		}
		times = append(times, st)
	}

	return times, nil
}
