package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const FanoutQueue = "notifications:fanout"

// FanoutJob asks the notification worker to notify every user except
// the uploader about a freshly uploaded media item.
type FanoutJob struct {
	MediaID      string `json:"media_id"`
	UploaderID   string `json:"uploader_id"`
	UploaderName string `json:"uploader_name"`
}

func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return rdb, nil
}

func EnqueueFanout(ctx context.Context, rdb *redis.Client, job FanoutJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal failed: %w", err)
	}
	if err := rdb.LPush(ctx, FanoutQueue, data).Err(); err != nil {
		return fmt.Errorf("queue: lpush failed: %w", err)
	}
	return nil
}
