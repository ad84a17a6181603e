package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SearchCache keeps recent TMDB search pages in Redis so repeated queries
// skip the external catalog entirely. A nil client means caching is disabled
// and every operation is a no-op.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache connects to Redis at addr. An empty addr returns a disabled
// cache rather than an error, the application degrades to uncached searches.
func NewSearchCache(addr string, ttl time.Duration) (*SearchCache, error) {
	if addr == "" {
		return &SearchCache{ttl: ttl}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &SearchCache{client: rdb, ttl: ttl}, nil
}

// Get unmarshals a cached value into dest, reporting whether a hit occurred.
func (c *SearchCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value under key with the configured TTL, best-effort.
func (c *SearchCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}
