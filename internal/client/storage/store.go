// Package storage provides the two device-local key/value tiers the client
// keeps its state in.
//
// The persistent tier (SQLiteStore) survives restarts and holds the PIN
// record, biometric enrollment, cart and cached identity. The session tier
// (MemoryStore) lives only as long as the process and holds the unlock flag.
//
// Every failure is wrapped with ErrStorage. Absent keys are not failures:
// Get returns (nil, nil) for them.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var ErrStorage = errors.New("storage error")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes all values or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	// DeletePrefix removes every key starting with prefix and reports how
	// many were removed.
	DeletePrefix(ctx context.Context, prefix string) (int, error)
	Clear(ctx context.Context) error
}

func wrapErr(format string, args ...any) error {
	return fmt.Errorf("%w: %w", ErrStorage, fmt.Errorf(format, args...))
}
