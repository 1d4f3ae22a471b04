// Package cache provides the Redis-backed cache for normalized page
// documents. Published pages are normalized on every read; caching the result
// keeps the hot rendering path off the database and out of the migration
// walk.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type DocumentCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New connects to Redis and returns a document cache.
func New(redisURL string, ttl time.Duration) (*DocumentCache, error) {
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

	return &DocumentCache{client: client, ttl: ttl, prefix: "page:"}, nil
}

// NewWithClient wraps an existing Redis client.
func NewWithClient(client *redis.Client, ttl time.Duration) *DocumentCache {
	return &DocumentCache{client: client, ttl: ttl, prefix: "page:"}
}

func (c *DocumentCache) key(pageID string) string {
	return c.prefix + pageID + ":doc"
}

// GetDocument returns the cached normalized document for a page, or nil on a
// miss. Redis failures are treated as misses; the caller re-normalizes from
// the database.
func (c *DocumentCache) GetDocument(ctx context.Context, pageID string) map[string]any {
	raw, err := c.client.Get(ctx, c.key(pageID)).Bytes()
	if err != nil {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}
	return doc
}

// SetDocument stores a normalized document with the configured TTL.
func (c *DocumentCache) SetDocument(ctx context.Context, pageID string, doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal cached document: %w", err)
	}
	if err := c.client.Set(ctx, c.key(pageID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache document: %w", err)
	}
	return nil
}

// Invalidate drops the cached document for a page. Called on every save,
// draft apply, and unpublish.
func (c *DocumentCache) Invalidate(ctx context.Context, pageID string) error {
	if err := c.client.Del(ctx, c.key(pageID)).Err(); err != nil {
		return fmt.Errorf("invalidate cached document: %w", err)
	}
	return nil
}

func (c *DocumentCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *DocumentCache) Close() error {
	return c.client.Close()
}
