package dict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheVersionKey = "dict:version"

// Cache wraps Redis based caching of typed value sets with a global version.
// A nil cache or client degrades to pass-through loads.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache instantiates the cache helper.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Version returns the current cache version, initialising when missing.
func (c *Cache) Version(ctx context.Context) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	ver, err := c.client.Get(ctx, cacheVersionKey).Int64()
	if err == redis.Nil {
		if err := c.client.Set(ctx, cacheVersionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return ver, nil
}

// FetchValues loads the cached value set for a type or populates it.
func (c *Cache) FetchValues(ctx context.Context, dictType string, loader func(context.Context) ([]Dict, error)) ([]Dict, error) {
	if loader == nil {
		return nil, errors.New("cache: loader required")
	}
	if c == nil || c.client == nil {
		return loader(ctx)
	}
	ver, err := c.Version(ctx)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("dict:values:%s:%d", dictType, ver)
	payload, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var values []Dict
		if err := json.Unmarshal(payload, &values); err != nil {
			return nil, err
		}
		return values, nil
	}
	if err != redis.Nil {
		return nil, err
	}
	values, err := loader(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Bump invalidates every cached value set by incrementing the version.
func (c *Cache) Bump(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Incr(ctx, cacheVersionKey).Err()
}
