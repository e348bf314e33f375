package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/moraesvn/projeto-estoque/internal/storage"
)

// Operators and marketplaces share the same shape and lifecycle, so the
// queries are written once against a table name from this fixed pair.
const (
	tableOperators    = "operators"
	tableMarketplaces = "marketplaces"
)

// normalizeName trims the name and collapses inner runs of whitespace to a
// single space, so "  Fernando   Silva " and "Fernando Silva" map to the same
// catalog row.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// saveCatalogEntry registers a name, reactivating it when it already exists.
// Registration is idempotent: the returned id is the existing row's id when
// the normalized name is already present.
func (s *Storage) saveCatalogEntry(ctx context.Context, table, name string) (int64, error) {
	const op = "storage.mysql.saveCatalogEntry"

	name = normalizeName(name)
	if name == "" {
		return 0, fmt.Errorf("%s: %s: empty name", op, table)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO `+table+` (name, active, created_at) VALUES (?, 1, ?)
		 ON DUPLICATE KEY UPDATE active = 1, id = LAST_INSERT_ID(id)`,
		name, isoNow(),
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", op, table, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", op, table, err)
	}

	return id, nil
}

// deactivateCatalogEntry soft-deletes by id. The row is never removed because
// historical sessions reference it.
func (s *Storage) deactivateCatalogEntry(ctx context.Context, table string, id int64) error {
	const op = "storage.mysql.deactivateCatalogEntry"

	res, err := s.db.ExecContext(ctx, `UPDATE `+table+` SET active = 0 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, table, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %s: %w", op, table, err)
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM `+table+` WHERE id = ?`, id).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%s: %s id=%d: %w", op, table, id, storage.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, table, err)
		}
		// Already inactive, nothing to do.
	}

	return nil
}

func (s *Storage) listCatalog(ctx context.Context, table string, activeOnly bool) ([]storage.CatalogEntry, error) {
	const op = "storage.mysql.listCatalog"

	query := `SELECT id, name, active FROM ` + table
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, table, err)
	}
	defer rows.Close()

	var entries []storage.CatalogEntry
	for rows.Next() {
		var e storage.CatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Active); err != nil {
			return nil, fmt.Errorf("%s: %s: scan: %w", op, table, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, table, err)
	}

	return entries, nil
}

func (s *Storage) SaveOperator(ctx context.Context, name string) (int64, error) {
	return s.saveCatalogEntry(ctx, tableOperators, name)
}

func (s *Storage) DeactivateOperator(ctx context.Context, id int64) error {
	return s.deactivateCatalogEntry(ctx, tableOperators, id)
}

func (s *Storage) ListOperators(ctx context.Context, activeOnly bool) ([]storage.CatalogEntry, error) {
	return s.listCatalog(ctx, tableOperators, activeOnly)
}

func (s *Storage) SaveMarketplace(ctx context.Context, name string) (int64, error) {
	return s.saveCatalogEntry(ctx, tableMarketplaces, name)
}

func (s *Storage) DeactivateMarketplace(ctx context.Context, id int64) error {
	return s.deactivateCatalogEntry(ctx, tableMarketplaces, id)
}

func (s *Storage) ListMarketplaces(ctx context.Context, activeOnly bool) ([]storage.CatalogEntry, error) {
	return s.listCatalog(ctx, tableMarketplaces, activeOnly)
}
