package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgConn is the slice of *pgxpool.Pool the backend uses.
type pgConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Postgres keeps blobs in the kv_state table, one row per key.
type Postgres struct {
	db pgConn
}

func NewPostgres(ctx context.Context, db pgConn) (*Postgres, error) {
	if _, err := db.Exec(ctx, `
    CREATE TABLE IF NOT EXISTS kv_state (
      key        TEXT PRIMARY KEY,
      payload    BYTEA NOT NULL,
      updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )
  `); err != nil {
		return nil, fmt.Errorf("ensure kv_state table: %w", err)
	}
	return &Postgres{db: db}, nil
}

func (p *Postgres) Driver() Driver { return DriverPostgres }

func (p *Postgres) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	var payload []byte
	err := p.db.QueryRow(ctx, `SELECT payload FROM kv_state WHERE key = $1`, key).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return payload, nil
}

func (p *Postgres) Save(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}
	if _, err := p.db.Exec(ctx, `
    INSERT INTO kv_state (key, payload, updated_at)
    VALUES ($1, $2, now())
    ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
  `, key, data); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
