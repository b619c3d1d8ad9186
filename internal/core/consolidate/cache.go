package consolidate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/go-redis/redis/v8"

	"shoplist-generator/internal/infrastructure/config"
)

// Cache stores raw consolidation replies in Redis, keyed by a hash of the
// serialized ingredient lines. A disabled cache is a valid no-op cache.
type Cache struct {
	client *redis.Client
	config *config.CacheConfig
}

// NewCache connects to Redis when caching is enabled.
func NewCache(cfg *config.CacheConfig) (*Cache, error) {
	if !cfg.Enabled {
		return &Cache{config: cfg}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Cache{
		client: client,
		config: cfg,
	}, nil
}

// Get returns the cached reply for the given payload, or an error on miss.
func (c *Cache) Get(ctx context.Context, payload []byte) (string, error) {
	if !c.config.Enabled || c.client == nil {
		return "", fmt.Errorf("cache is disabled")
	}

	val, err := c.client.Get(ctx, cacheKey(payload)).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("cache miss")
		}
		return "", fmt.Errorf("failed to get cache: %w", err)
	}
	return val, nil
}

// Set stores a reply for the given payload.
func (c *Cache) Set(ctx context.Context, payload []byte, reply string) error {
	if !c.config.Enabled || c.client == nil {
		return nil
	}

	if err := c.client.Set(ctx, cacheKey(payload), reply, c.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func cacheKey(payload []byte) string {
	sum := sha256.Sum256(payload)
	return "consolidate:" + hex.EncodeToString(sum[:])
}
