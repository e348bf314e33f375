package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetSetting returns the value for a key, or "" when the key is unset. An
// absent setting is not an error: callers treat it as "no target configured".
func (s *Storage) GetSetting(ctx context.Context, key string) (string, error) {
	const op = "storage.mysql.GetSetting"

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM settings WHERE `key` = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return value, nil
}

func (s *Storage) SetSetting(ctx context.Context, key, value string) error {
	const op = "storage.mysql.SetSetting"

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO settings (`key`, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("%s: key=%s: %w", op, key, err)
	}

	return nil
}
