package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptCounter keeps short-lived failure counters in redis, one key per
// subject, expiring with the configured window.
type AttemptCounter struct {
	client *redis.Client
}

func NewAttemptCounter(client *redis.Client) *AttemptCounter {
	return &AttemptCounter{client: client}
}

func (c *AttemptCounter) Count(ctx context.Context, key string) (int, error) {
	count, err := c.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (c *AttemptCounter) Record(ctx context.Context, key string, window time.Duration) error {
	if err := c.client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.client.Expire(ctx, key, window).Err()
}

func (c *AttemptCounter) Clear(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}
