package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a redis client and fails safe: any redis error behaves like a
// cache miss so the database stays the source of truth.
type Cache struct {
	Client *redis.Client
}

// NewCache connects to redis with short timeouts.
func NewCache(addr string) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return &Cache{Client: client}
}

// Get returns the cached value, or nil on miss or redis failure.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.Client == nil {
		return nil, nil
	}
	res, err := c.Client.Get(ctx, key).Bytes()
	if err != nil {
		// redis.Nil and connectivity errors both read as a miss
		return nil, nil
	}
	return res, nil
}

// Set stores value with a TTL, ignoring redis errors.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.Client == nil {
		return nil
	}
	_ = c.Client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c == nil || c.Client == nil {
		return nil
	}
	_ = c.Client.Del(ctx, key).Err()
	return nil
}

// Healthy verifies redis connectivity.
func (c *Cache) Healthy(ctx context.Context) bool {
	if c == nil || c.Client == nil {
		return false
	}
	return c.Client.Ping(ctx).Err() == nil
}
