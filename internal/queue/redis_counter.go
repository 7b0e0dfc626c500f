package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyTTL keeps a day's counter around long enough to cover late clock skew.
const keyTTL = 48 * time.Hour

// RedisCounter issues numbers with INCR on a key per location and day, so
// concurrent intakes never share a number. A missing key is seeded from the
// repository before the first increment.
type RedisCounter struct {
	client redis.Cmdable
	seed   *RepositoryCounter
	loc    *time.Location
	prefix string
}

func NewRedisCounter(client redis.Cmdable, seed *RepositoryCounter, loc *time.Location) *RedisCounter {
	return &RedisCounter{client: client, seed: seed, loc: loc, prefix: "queue"}
}

func (c *RedisCounter) Next(ctx context.Context, location string, now time.Time) (int, error) {
	key := c.key(location, now)

	exists, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue counter exists: %w", err)
	}
	if exists == 0 {
		current, err := c.seed.current(ctx, location, now)
		if err != nil {
			return 0, err
		}
		// Losing the SETNX race is fine: the winner seeded the same value.
		if err := c.client.SetNX(ctx, key, current, keyTTL).Err(); err != nil {
			return 0, fmt.Errorf("queue counter seed: %w", err)
		}
	}

	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("queue counter incr: %w", err)
	}
	return int(n), nil
}

func (c *RedisCounter) key(location string, now time.Time) string {
	start, _ := DayWindow(now, c.loc)
	return c.prefix + ":" + start.Format("2006-01-02") + ":" + location
}
