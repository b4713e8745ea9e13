package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis, for CI fleets that share generated
// documents between machines.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the server at url ("redis://[:password@]host:port/db")
// and verifies the connection.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := &RedisCache{client: redis.NewClient(opts)}
	if err := RetryWithBackoff(ctx, func() error {
		return classify(c.client.Ping(ctx).Err())
	}); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", opts.Addr, err)
	}
	return c, nil
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		data, err = c.client.Get(ctx, key).Bytes()
		return classify(err)
	})
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. Redis handles expiry.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Set(ctx, key, data, ttl).Err())
	})
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return RetryWithBackoff(ctx, func() error {
		return classify(c.client.Del(ctx, key).Err())
	})
}

// Clear deletes every key starting with prefix and returns how many were
// removed.
func (c *RedisCache) Clear(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", 256).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			removed += int(n)
			if err != nil {
				return removed, err
			}
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// classify marks transient network failures as retryable.
func classify(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	var ne net.Error
	if (errors.As(err, &ne) && ne.Timeout()) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.EOF) {
		return Retryable(fmt.Errorf("%w: %w", ErrNetwork, err))
	}
	return err
}

var _ Cache = (*RedisCache)(nil)
