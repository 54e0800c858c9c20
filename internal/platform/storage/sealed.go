package storage

import (
	"context"
	"errors"
	"fmt"

	cryptoutil "hrms/internal/platform/crypto"
)

// ErrSealBroken means a stored blob could not be opened with the configured key.
var ErrSealBroken = errors.New("storage: sealed blob could not be opened")

// Sealed encrypts blobs before they reach the wrapped backend.
type Sealed struct {
	next   Backend
	crypto *cryptoutil.Service
}

func NewSealed(next Backend, crypto *cryptoutil.Service) *Sealed {
	return &Sealed{next: next, crypto: crypto}
}

func (s *Sealed) Driver() Driver { return s.next.Driver() }

func (s *Sealed) Load(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.next.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	plain, err := s.crypto.Decrypt(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSealBroken, err)
	}
	return plain, nil
}

func (s *Sealed) Save(ctx context.Context, key string, data []byte) error {
	sealed, err := s.crypto.Encrypt(data)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return s.next.Save(ctx, key, sealed)
}

func (s *Sealed) Ping(ctx context.Context) error {
	return Ping(ctx, s.next)
}
