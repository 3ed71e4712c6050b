package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ListingCache is the TTL key/value store behind catalog listings. Keys are
// owned by the caller (they embed pagination parameters); this layer only
// moves bytes.
type ListingCache struct {
	client *redis.Client
}

// NewListingCache wraps the given Redis client.
func NewListingCache(client *redis.Client) *ListingCache {
	return &ListingCache{client: client}
}

// Get returns the cached value, or ok=false on a miss.
func (c *ListingCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return raw, true, nil
}

// SetWithTTL stores the value with the given expiry.
func (c *ListingCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
