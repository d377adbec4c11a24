package cache

import "time"

// Envelope wraps a cached payload with the unix second it was captured.
type Envelope[T any] struct {
	CapturedAt int64 `json:"captured_at"`
	Payload    T     `json:"payload"`
}

// Wrap stamps payload with now. Only the accessor calls it on write.
func Wrap[T any](payload T, now time.Time) Envelope[T] {
	return Envelope[T]{CapturedAt: now.Unix(), Payload: payload}
}

// MinTTL is the smallest TTL freshness can express; timestamps are whole seconds.
const MinTTL = time.Second

// IsFresh reports whether the envelope is strictly younger than ttl at now.
func (e Envelope[T]) IsFresh(ttl time.Duration, now time.Time) bool {
	return now.Unix()-e.CapturedAt < int64(ttl/time.Second)
}
