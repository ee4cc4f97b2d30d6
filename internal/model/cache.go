package model

import (
	"context"
	"time"
)

const (
	// TTLMissing is returned by StateCache.Get when the key does not exist.
	TTLMissing int64 = -2
	// TTLNoExpiry is returned by StateCache.Get when the key has no expiry.
	TTLNoExpiry int64 = -1
)

// StateCache stores opaque short-lived per-client state.
type StateCache interface {
	// Get returns the value and its remaining TTL in seconds. TTLMissing
	// signals an absent key, TTLNoExpiry a key without expiry.
	Get(ctx context.Context, key string) ([]byte, int64, error)
	Set(ctx context.Context, key string, value []byte) error
	SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error
}
