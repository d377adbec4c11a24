package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTTL is the logical freshness window used by the API caches.
const DefaultTTL = 10 * time.Minute

// physicalExpiryFactor stretches the store-side expiry past the logical TTL so
// unread keys are eventually reclaimed; freshness is decided on read.
const physicalExpiryFactor = 2

// Accessor implements cache-aside reads and writes over a Store.
// A nil store turns every read into a miss and every write into a no-op.
type Accessor struct {
	store  Store
	logger *logrus.Logger
	now    func() time.Time
}

type Option func(*Accessor)

// WithClock replaces time.Now, mainly for tests that advance time.
func WithClock(now func() time.Time) Option {
	return func(a *Accessor) { a.now = now }
}

func NewAccessor(store Store, logger *logrus.Logger, opts ...Option) *Accessor {
	if logger == nil {
		logger = logrus.New()
	}
	a := &Accessor{store: store, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Read returns the payload stored at key if it is still fresh under ttl.
// Store failures, undecodable entries and stale entries are all reported as absent.
func Read[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration) (T, bool) {
	var zero T
	if a == nil || a.store == nil {
		return zero, false
	}

	raw, err := a.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			a.logger.WithError(err).WithField("key", key).Warn("Failed to read from cache")
		}
		return zero, false
	}

	var env Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		a.logger.WithError(err).WithField("key", key).Warn("Failed to unmarshal cached entry")
		return zero, false
	}

	if !env.IsFresh(ttl, a.now()) {
		a.logger.WithField("key", key).Debug("Cached entry is stale")
		return zero, false
	}

	a.logger.WithField("key", key).Debug("Cache hit")
	return env.Payload, true
}

// Write stores payload under key, overwriting whatever was there.
// Failures are logged and swallowed. Freshness has whole-second granularity,
// so a ttl under MinTTL is never written.
func (a *Accessor) Write(ctx context.Context, key string, payload any, ttl time.Duration) {
	if a == nil || a.store == nil {
		return
	}
	if ttl < MinTTL {
		a.logger.WithFields(logrus.Fields{"key": key, "ttl": ttl}).Warn("TTL below one second, entry not cached")
		return
	}

	data, err := json.Marshal(Wrap(payload, a.now()))
	if err != nil {
		a.logger.WithError(err).WithField("key", key).Warn("Failed to marshal entry for caching")
		return
	}

	if err := a.store.Put(ctx, key, data, ttl*physicalExpiryFactor); err != nil {
		a.logger.WithError(err).WithField("key", key).Warn("Failed to write to cache")
		return
	}
	a.logger.WithField("key", key).Debug("Cached entry written")
}

// Delete removes key. Missing keys and store failures are not reported.
func (a *Accessor) Delete(ctx context.Context, key string) {
	if a == nil || a.store == nil {
		return
	}
	if err := a.store.Delete(ctx, key); err != nil {
		a.logger.WithError(err).WithField("key", key).Warn("Failed to delete from cache")
	}
}

// Load returns the fresh cached value for key or calls produce and caches its result.
// A produce error is returned as-is and nothing is written.
func Load[T any](ctx context.Context, a *Accessor, key string, ttl time.Duration, produce func(context.Context) (T, error)) (T, error) {
	if cached, ok := Read[T](ctx, a, key, ttl); ok {
		return cached, nil
	}

	value, err := produce(ctx)
	if err != nil {
		return value, err
	}

	a.Write(ctx, key, value, ttl)
	return value, nil
}
