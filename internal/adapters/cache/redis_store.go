package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

const (
	jobKeyPrefix = "detect:job:"
	jobIndexKey  = "detect:jobs"
	queueKey     = "detect:queue"
)

// Connect initializes a Redis client from URL or host:port input.
func Connect(_ context.Context, redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") {
		opt, parseErr := redis.ParseURL(redisURL)
		if parseErr != nil {
			return nil, fmt.Errorf("parse redis url: %w", parseErr)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// RedisJobStore keeps job records in Redis so a standalone worker process
// can share the store with the API. Records carry no TTL: history lives as
// long as the backing instance.
type RedisJobStore struct {
	client *redis.Client
}

func NewRedisJobStore(client *redis.Client) *RedisJobStore {
	return &RedisJobStore{client: client}
}

func (s *RedisJobStore) Create(ctx context.Context, job domain.DetectionJob) error {
	blob, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encode job: %w", err)
	}
	created, err := s.client.SetNX(ctx, jobKeyPrefix+job.ID, blob, 0).Result()
	if err != nil {
		return fmt.Errorf("store job: %w", err)
	}
	if !created {
		return domain.ErrDuplicateID
	}
	if err := s.client.RPush(ctx, jobIndexKey, job.ID).Err(); err != nil {
		return fmt.Errorf("index job: %w", err)
	}
	return nil
}

func (s *RedisJobStore) Complete(ctx context.Context, id string, result domain.DetectionResult) error {
	return s.transition(ctx, id, func(job *domain.DetectionJob) {
		job.Status = domain.JobStatusCompleted
		job.Result = &result
		job.ErrorDetail = ""
	})
}

func (s *RedisJobStore) Fail(ctx context.Context, id string, detail string) error {
	return s.transition(ctx, id, func(job *domain.DetectionJob) {
		job.Status = domain.JobStatusFailed
		job.ErrorDetail = detail
	})
}

// transition applies a terminal mutation under WATCH so two workers racing
// on the same id cannot both move it out of processing.
func (s *RedisJobStore) transition(ctx context.Context, id string, mutate func(*domain.DetectionJob)) error {
	key := jobKeyPrefix + id
	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load job: %w", err)
		}
		var job domain.DetectionJob
		if err := json.Unmarshal(raw, &job); err != nil {
			return fmt.Errorf("decode job: %w", err)
		}
		if job.IsTerminal() {
			return domain.ErrInvalidTransition
		}
		mutate(&job)
		blob, err := json.Marshal(job)
		if err != nil {
			return fmt.Errorf("encode job: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, blob, 0)
			return nil
		})
		return err
	}, key)
}

func (s *RedisJobStore) Get(ctx context.Context, id string) (domain.DetectionJob, error) {
	raw, err := s.client.Get(ctx, jobKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DetectionJob{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.DetectionJob{}, fmt.Errorf("load job: %w", err)
	}
	var job domain.DetectionJob
	if err := json.Unmarshal(raw, &job); err != nil {
		return domain.DetectionJob{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

func (s *RedisJobStore) List(ctx context.Context) ([]domain.DetectionJob, error) {
	ids, err := s.client.LRange(ctx, jobIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list job ids: %w", err)
	}
	out := make([]domain.DetectionJob, 0, len(ids))
	for _, id := range ids {
		job, err := s.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}
