package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appErrors "github.com/atlas-sports/site-api/pkg/errors"
)

const purgeBatch = 100

// ListingCache keeps JSON snapshots of public listings in Redis. A nil client
// turns every call into a miss or a no-op so the site runs without Redis.
type ListingCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewListingCache constructs a listing cache.
func NewListingCache(client *redis.Client, logger *zap.Logger) *ListingCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingCache{client: client, logger: logger}
}

// Load decodes the snapshot under key into dest. Snapshots that no longer
// decode into dest (the listing shape changed between deploys) are dropped
// and reported as a miss.
func (c *ListingCache) Load(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return appErrors.ErrCacheMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return appErrors.ErrCacheMiss
	case err != nil:
		return fmt.Errorf("load listing %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("dropping undecodable listing snapshot", zap.String("key", key), zap.Error(err))
		c.client.Del(ctx, key)
		return appErrors.ErrCacheMiss
	}
	return nil
}

// Store writes a snapshot of value under key for ttl.
func (c *ListingCache) Store(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode listing %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("store listing %s: %w", key, err)
	}
	return nil
}

// Purge unlinks every snapshot whose key starts with prefix and reports how
// many were removed.
func (c *ListingCache) Purge(ctx context.Context, prefix string) (int, error) {
	if c.client == nil {
		return 0, nil
	}
	removed := 0
	keys := make([]string, 0, purgeBatch)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		n, err := c.client.Unlink(ctx, keys...).Result()
		if err != nil {
			return fmt.Errorf("purge listings %s: %w", prefix, err)
		}
		removed += int(n)
		keys = keys[:0]
		return nil
	}

	iter := c.client.Scan(ctx, 0, prefix+"*", purgeBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == purgeBatch {
			if err := flush(); err != nil {
				return removed, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("scan listings %s: %w", prefix, err)
	}
	if err := flush(); err != nil {
		return removed, err
	}
	return removed, nil
}

// Ping checks that Redis answers.
func (c *ListingCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (c *ListingCache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
