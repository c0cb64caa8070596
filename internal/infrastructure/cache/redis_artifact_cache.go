package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/facture/backend/internal/application/invoicing"
	"github.com/redis/go-redis/v9"
)

// RedisArtifactCache caches rendered invoice documents in Redis so that a
// repeated render of identical content skips the engine entirely. Suitable
// for distributed deployments where multiple instances share one cache.
type RedisArtifactCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

const defaultKeyPrefix = "invoice:artifact:"

// NewRedisArtifactCache creates a Redis-backed artifact cache
func NewRedisArtifactCache(cfg RedisConfig) (*RedisArtifactCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisArtifactCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       cfg.TTL,
	}, nil
}

// NewRedisArtifactCacheWithClient creates a cache with an existing Redis client
// This is useful for testing or when sharing a client across components
func NewRedisArtifactCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisArtifactCache {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisArtifactCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

// Get retrieves a cached document. A missing key is a miss, not an error.
func (c *RedisArtifactCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read cached artifact: %w", err)
	}
	return data, true, nil
}

// Set stores a rendered document under the content key with the configured TTL
func (c *RedisArtifactCache) Set(ctx context.Context, key string, data []byte) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache artifact: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisArtifactCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisArtifactCache) GetClient() *redis.Client {
	return c.client
}

var _ invoicing.ArtifactCache = (*RedisArtifactCache)(nil)
