package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SQLite mirrors the postgres layout in a local sqlite file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(ctx context.Context, db *sql.DB) (*SQLite, error) {
	if _, err := db.ExecContext(ctx, `
    CREATE TABLE IF NOT EXISTS kv_state (
      key        TEXT PRIMARY KEY,
      payload    BLOB NOT NULL,
      updated_at INTEGER NOT NULL
    )
  `); err != nil {
		return nil, fmt.Errorf("ensure kv_state table: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Driver() Driver { return DriverSQLite }

func (s *SQLite) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM kv_state WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (s *SQLite) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	if _, err := s.db.ExecContext(ctx, `
    INSERT INTO kv_state (key, payload, updated_at)
    VALUES (?, ?, ?)
    ON CONFLICT (key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
  `, key, data, time.Now().UTC().UnixMilli()); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
