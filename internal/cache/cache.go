// Package cache provides Redis caching for layers and annotations.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/annotation-layers/backend/internal/config"
)

// allSuffix names the key holding a resource's full list.
const allSuffix = ":all"

// Cache defines the interface for caching operations. Values are stored
// per resource ("annotation", "annotationlayer") and decoded into dst.
type Cache interface {
	// Get loads one cached row into dst and reports whether it was found.
	Get(ctx context.Context, resource, id string, dst any) (bool, error)

	// Set stores one row and drops the cached list of its resource.
	Set(ctx context.Context, resource, id string, value any) error

	// GetList loads the cached list of a resource into dst.
	GetList(ctx context.Context, resource string, dst any) (bool, error)

	// SetList stores the full list of a resource.
	SetList(ctx context.Context, resource string, value any) error

	// Delete removes one row and drops the cached list of its resource.
	Delete(ctx context.Context, resource, id string) error

	// Flush removes every cached key of a resource.
	Flush(ctx context.Context, resource string) error

	// Close closes the cache connection.
	Close() error
}

// RedisCache implements Cache using Redis.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
	ttl    time.Duration
}

// NewRedisCache creates a new Redis cache.
func NewRedisCache(cfg *config.Config, logger *zap.Logger) (*RedisCache, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis cache", zap.Duration("ttl", cfg.CacheTTL))

	return &RedisCache{
		client: client,
		logger: logger,
		ttl:    cfg.CacheTTL,
	}, nil
}

func rowKey(resource, id string) string {
	return resource + ":" + id
}

func listKey(resource string) string {
	return resource + allSuffix
}

// Get retrieves one row. Redis faults are logged and reported as a miss.
func (c *RedisCache) Get(ctx context.Context, resource, id string, dst any) (bool, error) {
	return c.load(ctx, rowKey(resource, id), dst), nil
}

// GetList retrieves the cached list of a resource.
func (c *RedisCache) GetList(ctx context.Context, resource string, dst any) (bool, error) {
	return c.load(ctx, listKey(resource), dst), nil
}

func (c *RedisCache) load(ctx context.Context, key string, dst any) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.logger.Warn("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("Failed to unmarshal cached value", zap.String("key", key), zap.Error(err))
		return false
	}

	c.logger.Debug("Cache hit", zap.String("key", key))
	return true
}

// Set stores one row.
func (c *RedisCache) Set(ctx context.Context, resource, id string, value any) error {
	if err := c.store(ctx, rowKey(resource, id), value); err != nil {
		return err
	}
	return c.invalidateList(ctx, resource)
}

// SetList stores the list of a resource.
func (c *RedisCache) SetList(ctx context.Context, resource string, value any) error {
	return c.store(ctx, listKey(resource), value)
}

func (c *RedisCache) store(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to marshal value for cache", zap.String("key", key), zap.Error(err))
		return err
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Failed to set cache", zap.String("key", key), zap.Error(err))
		return err
	}

	c.logger.Debug("Cached value", zap.String("key", key))
	return nil
}

// Delete removes one row from cache.
func (c *RedisCache) Delete(ctx context.Context, resource, id string) error {
	key := rowKey(resource, id)
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.logger.Warn("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return err
	}
	return c.invalidateList(ctx, resource)
}

func (c *RedisCache) invalidateList(ctx context.Context, resource string) error {
	if err := c.client.Del(ctx, listKey(resource)).Err(); err != nil {
		c.logger.Warn("Failed to invalidate list cache", zap.String("resource", resource), zap.Error(err))
		return err
	}
	return nil
}

// Flush removes every key of a resource, rows and list alike.
func (c *RedisCache) Flush(ctx context.Context, resource string) error {
	iter := c.client.Scan(ctx, 0, resource+":*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn("Failed to scan cache keys", zap.String("resource", resource), zap.Error(err))
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to flush cache", zap.String("resource", resource), zap.Error(err))
		return err
	}

	c.logger.Debug("Flushed cache", zap.String("resource", resource), zap.Int("keys", len(keys)))
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	c.logger.Info("Closing Redis connection")
	return c.client.Close()
}
