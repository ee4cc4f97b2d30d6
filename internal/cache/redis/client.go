package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/proposaldesk/docstore/internal/model"
)

var _ model.StateCache = (*Client)(nil)

// Client adapts a Redis connection to the StateCache interface. TTL
// reporting keeps the Redis convention: -2 missing, -1 no expiry.
type Client struct {
	rdb redis.Cmdable
}

// NewClient creates a cache client over a live Redis connection.
func NewClient(addr, password string, db int) *Client {
	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

// NewClientWithCmdable allows injecting a mockable command interface (used in tests).
func NewClientWithCmdable(rdb redis.Cmdable) *Client {
	return &Client{rdb: rdb}
}

func (c *Client) Get(ctx context.Context, key string) ([]byte, int64, error) {
	value, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.TTLMissing, nil
		}
		return nil, 0, fmt.Errorf("failed to get cache key: %w", err)
	}

	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get cache key ttl: %w", err)
	}

	// go-redis passes the TTL replies -1 (no expiry) and -2 (missing)
	// through unscaled, as raw time.Duration values.
	switch ttl {
	case -1:
		return value, model.TTLNoExpiry, nil
	case -2:
		// Expired between GET and TTL.
		return nil, model.TTLMissing, nil
	default:
		return value, int64(ttl.Seconds()), nil
	}
}

func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set cache key: %w", err)
	}
	return nil
}

func (c *Client) SetEx(ctx context.Context, key string, ttl time.Duration, value []byte) error {
	if err := c.rdb.SetEx(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key with ttl: %w", err)
	}
	return nil
}
