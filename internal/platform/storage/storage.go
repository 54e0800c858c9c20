// Package storage holds the keyed blob backends the record store persists
// through. Every backend maps one string key to one opaque byte slice.
package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrNotFound means the key has never been written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrUnavailable means the medium cannot be reached or is not configured.
	ErrUnavailable = errors.New("storage: backend unavailable")
)

type Driver string

const (
	DriverMemory   Driver = "memory"
	DriverFile     Driver = "file"
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
	DriverS3       Driver = "s3"
	DriverNone     Driver = "none"
)

type Backend interface {
	Driver() Driver
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks b when it supports readiness probes.
func Ping(ctx context.Context, b Backend) error {
	if p, ok := b.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Unavailable is the backend used when no persistence medium exists. Reads and
// writes both fail with ErrUnavailable.
type Unavailable struct{}

func (Unavailable) Driver() Driver { return DriverNone }

func (Unavailable) Load(context.Context, string) ([]byte, error) { return nil, ErrUnavailable }

func (Unavailable) Save(context.Context, string, []byte) error { return ErrUnavailable }

func (Unavailable) Ping(context.Context) error { return ErrUnavailable }

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) || filepath.IsAbs(key) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
