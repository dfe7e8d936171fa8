package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"prospect-enricher/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is a JSON read-through cache for institution-level lookups. A nil
// *Cache is valid and always misses.
type Cache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
	logger logger.Logger
}

func New(client redis.Cmdable, prefix string, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{client: client, prefix: prefix, ttl: ttl, logger: log}
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// GetJSON decodes the cached value into out. It reports false on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, err
	}
	return true, nil
}

// Through returns the cached value for key or calls fn and caches its
// result. Errors and empty results are never cached, and cache failures
// only cost a log line.
func Through[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	return ThroughIf(ctx, c, key, fn, nil)
}

// ThroughIf is Through that only stores results keep accepts. A nil keep
// accepts everything.
func ThroughIf[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error), keep func(T) bool) (T, error) {
	if c == nil {
		return fn(ctx)
	}

	var cached T
	hit, err := c.GetJSON(ctx, key, &cached)
	if err != nil {
		c.logger.Warn("Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	if hit {
		return cached, nil
	}

	value, err := fn(ctx)
	if err != nil {
		return value, err
	}

	if keep != nil && !keep(value) {
		return value, nil
	}
	data, err := json.Marshal(value)
	if err != nil || isEmptyJSON(data) {
		return value, nil
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
	return value, nil
}

func isEmptyJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte("[]")) || bytes.Equal(data, []byte(`""`))
}
