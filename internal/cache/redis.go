// Package cache wraps the Redis client used for webhook event dedupe.
package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

func NewRedisClient(addr, pass string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: pass,
		DB:       db,
	})
}

func Ping(ctx context.Context, c *redis.Client) error {
	return c.Ping(ctx).Err()
}
