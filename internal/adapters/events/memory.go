package events

import (
	"context"
	"errors"
	"io"
	"sync"
)

// MemoryJobQueue is the in-process JobQueue. With this backend the worker
// must run inside the API process; a separate worker binary would never
// see the queue.
type MemoryJobQueue struct {
	mu    sync.Mutex
	items []string
}

func NewMemoryJobQueue() *MemoryJobQueue {
	return &MemoryJobQueue{items: make([]string, 0, 64)}
}

func (q *MemoryJobQueue) Enqueue(_ context.Context, jobID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, jobID)
	return nil
}

func (q *MemoryJobQueue) Dequeue(_ context.Context) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return "", io.EOF
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, nil
}

func (q *MemoryJobQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func IsIdleError(err error) bool {
	return errors.Is(err, io.EOF)
}
