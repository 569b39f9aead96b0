package phishing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyDomainAge = "domainage:%s"

// RedisAgeCache keeps registration timestamps in Redis as RFC 3339 strings.
type RedisAgeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisAgeCache stores registration dates in client for ttl.
func NewRedisAgeCache(client *redis.Client, ttl time.Duration) *RedisAgeCache {
	return &RedisAgeCache{client: client, ttl: ttl}
}

func (c *RedisAgeCache) Get(ctx context.Context, domain string) (time.Time, bool, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf(redisKeyDomainAge, domain)).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("redis get failure: %w", err)
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cached value %q: %w", val, err)
	}
	return t, true, nil
}

func (c *RedisAgeCache) Set(ctx context.Context, domain string, registered time.Time) error {
	key := fmt.Sprintf(redisKeyDomainAge, domain)
	if err := c.client.Set(ctx, key, registered.UTC().Format(time.RFC3339), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failure: %w", err)
	}
	return nil
}
