package ports

import (
	"context"
	"errors"
)

var (
	// ErrQuotaExceeded reports that a write was rejected for capacity
	// reasons. Callers distinguish it from other failures with errors.Is
	// and respond by trimming archived entries.
	ErrQuotaExceeded = errors.New("store quota exceeded")

	ErrKeyNotFound = errors.New("key not found")
)

// KVStore is the persistence substrate for session snapshots and archives.
// Values are opaque strings; Keys lists every stored key with the given
// prefix, in unspecified order.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
