package queue

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisFanout is the producer side of the fan-out queue.
type RedisFanout struct {
	RDB *redis.Client
}

func (q *RedisFanout) EnqueueFanout(ctx context.Context, job FanoutJob) error {
	return EnqueueFanout(ctx, q.RDB, job)
}
