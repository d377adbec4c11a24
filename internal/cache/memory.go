package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process Store for local development and tests.
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates a store that sweeps expired entries every cleanupInterval.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	return &MemoryStore{items: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := s.items.Get(key)
	if !ok {
		return nil, ErrMiss
	}
	stored := v.([]byte)
	out := make([]byte, len(stored))
	copy(out, stored)
	return out, nil
}

func (s *MemoryStore) Put(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.items.Set(key, stored, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.items.Delete(key)
	return nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len reports how many entries are physically held, expired or not.
func (s *MemoryStore) Len() int {
	return s.items.ItemCount()
}

var _ Store = (*MemoryStore)(nil)
