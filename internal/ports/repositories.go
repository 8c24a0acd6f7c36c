package ports

import (
	"context"
	"io"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// DetectionJobStore holds job records for the process lifetime. Jobs are
// created in the processing state, transition exactly once to a terminal
// state, and are never deleted. Implementations must tolerate concurrent
// reads interleaved with writes from different requests.
type DetectionJobStore interface {
	Create(ctx context.Context, job domain.DetectionJob) error
	Complete(ctx context.Context, id string, result domain.DetectionResult) error
	Fail(ctx context.Context, id string, detail string) error
	Get(ctx context.Context, id string) (domain.DetectionJob, error)
	List(ctx context.Context) ([]domain.DetectionJob, error)
}

// JobQueue carries ids of submitted jobs to the worker. Dequeue returns
// io.EOF when the queue is idle.
type JobQueue interface {
	Enqueue(ctx context.Context, jobID string) error
	Dequeue(ctx context.Context) (string, error)
}

// MediaSpool is scoped temporary storage for uploaded media. Save returns
// a path unique across concurrent requests; the caller owns the path and
// must Remove it on every exit path.
type MediaSpool interface {
	Save(ctx context.Context, r io.Reader, ext string) (string, error)
	Remove(path string) error
}
