package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrendCacheTTL keeps cached trend responses short-lived: the underlying
// document only changes once per collection run, but a stale cache after a
// run should clear within minutes without explicit invalidation.
const TrendCacheTTL = 5 * time.Minute

// CacheService provides a Redis cache-aside layer for trend responses.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a new CacheService. If redisURL is empty or connection
// fails, it returns a CacheService with a nil client (cache operations become no-ops).
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetTrend retrieves a cached trend response. Returns nil if not cached or
// cache is disabled. The key distinguishes the full document from single
// category views.
func (c *CacheService) GetTrend(ctx context.Context, category string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, trendKey(category)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetTrend stores a trend response in cache.
func (c *CacheService) SetTrend(ctx context.Context, category string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, trendKey(category), b, TrendCacheTTL).Err()
}

// InvalidateTrend drops every cached trend view (called after a collection
// run merges a fresh document).
func (c *CacheService) InvalidateTrend(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	iter := c.rdb.Scan(ctx, 0, "trend:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func trendKey(category string) string {
	if category == "" {
		return "trend:all"
	}
	return fmt.Sprintf("trend:cat:%s", category)
}
