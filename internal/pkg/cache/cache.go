// Package cache provides a small JSON value cache over Redis for report
// aggregates. The server runs without Redis; in that case every method is a
// miss or a no-op.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/tanmay/courtside/internal/pkg/logger"
)

// Cache wraps a Redis client. A nil *Cache or a Cache with a nil client is
// safe to use and caches nothing.
type Cache struct {
	rdb goredis.Cmdable
}

// New creates a Cache over the given Redis client. Pass nil to disable
// caching.
func New(rdb goredis.Cmdable) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// Get unmarshals the cached JSON value at key into dest. Returns false on a
// miss, on a disabled cache and on any Redis error; Redis failures only cost
// the caller a recomputation.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.rdb == nil {
		return false
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("Redis cache GET failed, recomputing")
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to unmarshal cached value, recomputing")
		return false
	}
	return true
}

// Set stores value as JSON under key with a TTL. Best-effort.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}

	encoded, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal value for cache")
		return
	}
	if err := c.rdb.Set(ctx, key, encoded, ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Redis cache SET failed")
	}
}

// InvalidatePrefix removes all keys with the given prefix. Used after writes
// to the tables a report reads from.
func (c *Cache) InvalidatePrefix(ctx context.Context, prefix string) {
	if c == nil || c.rdb == nil {
		return
	}

	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logger.Warn().Err(err).Str("prefix", prefix).Msg("Redis cache SCAN failed")
		return
	}
	if len(keys) > 0 {
		if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
			logger.Warn().Err(err).Str("prefix", prefix).Msg("Redis cache DEL failed")
		}
	}
}
