// Package cache is a read-through Redis cache for rendered post HTML.
// Keys embed the post's lock_version, so every accepted write moves the
// key and stale entries simply age out. The cache only ever accelerates;
// any Redis failure falls back to rendering.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// DefaultTTL bounds how long a rendered page can outlive its post's
// deletion.
const DefaultTTL = 5 * time.Minute

// Cache wraps a Redis client. A disabled cache is valid and fills every
// request from the loader.
type Cache struct {
	client  *redis.Client
	enabled bool
}

// NewFromURL connects to Redis from a redis:// URL. An empty URL returns a
// disabled cache.
func NewFromURL(redisURL string) (*Cache, error) {
	if redisURL == "" {
		return &Cache{}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Cache{client: client, enabled: true}, nil
}

// Enabled reports whether a Redis backend is attached.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// Ping checks the Redis backend. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// PostHTMLKey is the cache key for a post's rendered HTML at a given
// lock_version.
func PostHTMLKey(postID int64, lockVersion int) string {
	return fmt.Sprintf("inkwell:post:html:%d:v%d", postID, lockVersion)
}

// Fetch returns the cached value under key, filling it from loader on a
// miss. Redis errors degrade to calling the loader directly.
func (c *Cache) Fetch(ctx context.Context, key string, ttl time.Duration, loader func() (string, error)) (string, error) {
	if !c.enabled {
		return loader()
	}

	cached, err := c.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		log.Debug().Err(err).Str("key", key).Msg("cache read failed")
		return loader()
	}

	value, err := loader()
	if err != nil {
		return "", err
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
	return value, nil
}

// Invalidate drops keys. Used when a post is deleted outright; version
// bumps don't need it.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if !c.enabled || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Debug().Err(err).Msg("cache invalidate failed")
	}
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	if !c.enabled || c.client == nil {
		return nil
	}
	return c.client.Close()
}
