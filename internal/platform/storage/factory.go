package storage

import (
	"context"
	"fmt"

	"hrms/internal/platform/config"
	cryptoutil "hrms/internal/platform/crypto"
	"hrms/internal/platform/db"
)

// Open builds the backend selected by cfg.StorageDriver, sealed when an
// encryption key is configured. The returned close func releases any pool or
// file handle and is never nil.
func Open(ctx context.Context, cfg config.Config) (Backend, func(), error) {
	backend, closeFn, err := open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	if crypto.Configured() {
		backend = NewSealed(backend, crypto)
	}
	return backend, closeFn, nil
}

func open(ctx context.Context, cfg config.Config) (Backend, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return NewMemory(), noop, nil
	case config.DriverFile, "":
		backend, err := NewFile(cfg.StorageDir)
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil
	case config.DriverPostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		backend, err := NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return backend, pool.Close, nil
	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		backend, err := NewSQLite(ctx, conn)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return backend, func() { _ = conn.Close() }, nil
	case config.DriverS3:
		backend, err := NewS3(ctx, S3Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			PathStyle: cfg.S3.PathStyle,
			Prefix:    cfg.S3.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return backend, noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
