package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// JSONCache stores JSON-encoded values in Redis under a common key prefix.
type JSONCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
}

// NewJSONCache returns a cache writing keys as "<prefix>:<key>" with the given TTL.
func NewJSONCache(rdb *redis.Client, prefix string, ttl time.Duration) *JSONCache {
	return &JSONCache{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (c *JSONCache) key(k string) string {
	return c.prefix + ":" + k
}

// Get decodes the cached value for k into dst. It reports false on a miss.
func (c *JSONCache) Get(ctx context.Context, k string, dst interface{}) (bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(k)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get %s: %w", c.key(k), err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", c.key(k), err)
	}
	return true, nil
}

// Set stores v under k for the configured TTL.
func (c *JSONCache) Set(ctx context.Context, k string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s for cache: %w", c.key(k), err)
	}
	if err := c.rdb.Set(ctx, c.key(k), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", c.key(k), err)
	}
	return nil
}
