package mysql

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/moraesvn/projeto-estoque/internal/config"
)

//go:embed schema.sql
var schemaSQL string

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=%v",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.ParseTime,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// InitSchema creates the tables and indexes if they do not exist. The schema
// file holds one statement per block separated by blank-line semicolons.
func (s *Storage) InitSchema(ctx context.Context) error {
	const op = "storage.mysql.InitSchema"

	for _, stmt := range strings.Split(schemaSQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	return nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

const timestampLayout = "2006-01-02 15:04:05"

// isoNow is the local-time timestamp string used for created_at/updated_at.
func isoNow() string {
	return time.Now().Format(timestampLayout)
}
