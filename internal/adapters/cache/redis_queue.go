package cache

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
)

// RedisJobQueue is the cross-process JobQueue variant. Dequeue is
// non-blocking and signals idle with io.EOF, matching the memory queue.
type RedisJobQueue struct {
	client *redis.Client
}

func NewRedisJobQueue(client *redis.Client) *RedisJobQueue {
	return &RedisJobQueue{client: client}
}

func (q *RedisJobQueue) Enqueue(ctx context.Context, jobID string) error {
	if err := q.client.LPush(ctx, queueKey, jobID).Err(); err != nil {
		return fmt.Errorf("enqueue job: %w", err)
	}
	return nil
}

func (q *RedisJobQueue) Dequeue(ctx context.Context) (string, error) {
	jobID, err := q.client.RPop(ctx, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", io.EOF
	}
	if err != nil {
		return "", fmt.Errorf("dequeue job: %w", err)
	}
	return jobID, nil
}
