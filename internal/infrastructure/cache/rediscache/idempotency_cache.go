// Package rediscache implements the application's cache ports against
// Redis, the way the teacher's infrastructure packages implement ports
// against a single concrete technology per file.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wallethub/core/internal/application/ports"
	domainerrors "github.com/wallethub/core/internal/domain/errors"
)

// Compile-time check
var _ ports.IdempotencyCache = (*IdempotencyCache)(nil)

// IdempotencyCache is the Redis-backed TTL gate described in spec §4.2. Keys
// are namespaced under prefix so the same Redis database can host other
// cached data without collision.
type IdempotencyCache struct {
	client *redis.Client
	prefix string
}

// NewIdempotencyCache создаёт Redis-backed IdempotencyCache.
func NewIdempotencyCache(client *redis.Client, prefix string) *IdempotencyCache {
	return &IdempotencyCache{client: client, prefix: prefix}
}

func (c *IdempotencyCache) fullKey(key string) string {
	return c.prefix + ":" + key
}

func (c *IdempotencyCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.fullKey(key)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	return n > 0, nil
}

func (c *IdempotencyCache) Remember(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.fullKey(key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	return nil
}

func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %v", domainerrors.ErrCache, err)
	}
	return payload, true, nil
}

// NewClient builds a *redis.Client from the connection settings the
// container assembles from config.Redis.
func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}
