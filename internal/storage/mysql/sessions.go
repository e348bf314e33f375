package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

// CreateSession inserts a session and pre-creates one stage_events row per
// stage, all in one transaction. Several sessions may share the same
// (operator, marketplace, date): each lot of orders is its own session.
func (s *Storage) CreateSession(ctx context.Context, date string, operatorID, marketplaceID int64, numOrders, packersCount int) (int64, error) {
	const op = "storage.mysql.CreateSession"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (date, operator_id, marketplace_id, num_orders, packers_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		date, operatorID, marketplaceID, numOrders, packersCount, isoNow(), isoNow(),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: insert session: %w", op, err)
	}

	sessionID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stage_events (session_id, stage) VALUES (?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("%s: prepare stage rows: %w", op, err)
	}
	defer stmt.Close()

	for _, stage := range storage.Stages {
		if _, err := stmt.ExecContext(ctx, sessionID, stage); err != nil {
			return 0, fmt.Errorf("%s: insert stage row %q: %w", op, stage, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	return sessionID, nil
}

func (s *Storage) GetSession(ctx context.Context, id int64) (*storage.Session, error) {
	const op = "storage.mysql.GetSession"

	var sess storage.Session
	var updatedAt sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, date, operator_id, marketplace_id, num_orders, packers_count, created_at, updated_at
		 FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &sess.Date, &sess.OperatorID, &sess.MarketplaceID, &sess.NumOrders, &sess.PackersCount, &sess.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: session id=%d: %w", op, id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if updatedAt.Valid {
		sess.UpdatedAt = updatedAt.String
	}

	return &sess, nil
}

func (s *Storage) UpdateSessionOrders(ctx context.Context, id int64, numOrders int) error {
	const op = "storage.mysql.UpdateSessionOrders"

	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET num_orders = ?, updated_at = ? WHERE id = ?`,
		numOrders, isoNow(), id,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM sessions WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: session id=%d: %w", op, id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

// DeleteSession removes a session permanently. Its stage_events rows go with
// it through the ON DELETE CASCADE on the foreign key.
func (s *Storage) DeleteSession(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteSession"

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: session id=%d: %w", op, id, storage.ErrNotFound)
	}

	return nil
}

// ListSessionsWithStatus returns a day's sessions (newest first) with their
// completed-stage counters. Operator and marketplace filters are optional.
func (s *Storage) ListSessionsWithStatus(ctx context.Context, date string, operatorID, marketplaceID *int64) ([]storage.SessionStatus, error) {
	const op = "storage.mysql.ListSessionsWithStatus"

	query := `
		SELECT s.id, s.date, s.operator_id, s.marketplace_id, s.num_orders, s.packers_count,
		       s.created_at, s.updated_at,
		       o.name AS operator, m.name AS marketplace,
		       SUM(CASE WHEN e.start_time IS NOT NULL AND e.end_time IS NOT NULL THEN 1 ELSE 0 END) AS completed_stages,
		       COUNT(e.id) AS total_stages
		  FROM sessions s
		  JOIN operators o ON o.id = s.operator_id
		  JOIN marketplaces m ON m.id = s.marketplace_id
		  JOIN stage_events e ON e.session_id = s.id
		 WHERE s.date = ?`
	args := []interface{}{date}

	if operatorID != nil {
		query += ` AND s.operator_id = ?`
		args = append(args, *operatorID)
	}
	if marketplaceID != nil {
		query += ` AND s.marketplace_id = ?`
		args = append(args, *marketplaceID)
	}

	query += ` GROUP BY s.id ORDER BY s.created_at DESC, s.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sessions []storage.SessionStatus
	for rows.Next() {
		var st storage.SessionStatus
		var updatedAt sql.NullString

		err := rows.Scan(&st.ID, &st.Date, &st.OperatorID, &st.MarketplaceID, &st.NumOrders, &st.PackersCount,
			&st.CreatedAt, &updatedAt, &st.Operator, &st.Marketplace, &st.CompletedStages, &st.TotalStages)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if updatedAt.Valid {
			st.UpdatedAt = updatedAt.String
		}
		sessions = append(sessions, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}
