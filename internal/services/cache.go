package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL keeps listing search results fresh within a minute
	DefaultCacheTTL = time.Minute
	// MinCacheTTL is 15 seconds
	MinCacheTTL = 15 * time.Second
	// MaxCacheTTL is 15 minutes
	MaxCacheTTL = 15 * time.Minute
)

// CacheService provides Redis-backed caching for listing search results.
type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{client: client}
}

// Get retrieves a value from cache. A miss is not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // Cache miss, not an error
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with default TTL
func (c *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return c.SetWithTTL(ctx, key, value, DefaultCacheTTL)
}

// SetWithTTL stores a value in cache with custom TTL (clamped to 15s-15m)
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl < MinCacheTTL {
		ttl = MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		ttl = MaxCacheTTL
	}

	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, CacheKeyPrefix+key).Err()
}
