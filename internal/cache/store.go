package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when the key is absent.
var ErrMiss = errors.New("cache: key not found")

// Store is the string-keyed byte store the accessor sits on.
//
// Implementations must be safe for concurrent use. Delete is idempotent.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
