package application

import (
	"context"
	"fmt"
	"time"
)

// ProcessNextJob dequeues one job id and runs the pipeline for it,
// transitioning the job to its terminal state. io.EOF from the queue
// passes through untouched so the worker can idle. The spooled media is
// released whichever way the job ends.
func (s *Service) ProcessNextJob(ctx context.Context) error {
	jobID, err := s.queue.Dequeue(ctx)
	if err != nil {
		return err
	}
	job, err := s.store.Get(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job %s: %w", jobID, err)
	}
	defer func() { _ = s.spool.Remove(job.MediaPath) }()

	started := s.nowFn()
	result, err := s.analyzeVideoFile(ctx, job.MediaPath)
	if err != nil {
		if failErr := s.store.Fail(ctx, job.ID, err.Error()); failErr != nil {
			return fmt.Errorf("fail job %s: %w", job.ID, failErr)
		}
		return fmt.Errorf("job %s: %w", job.ID, err)
	}
	result.ProcessingTime = elapsedSeconds(started, s.nowFn())
	if err := s.store.Complete(ctx, job.ID, result); err != nil {
		return fmt.Errorf("complete job %s: %w", job.ID, err)
	}
	return nil
}

func elapsedSeconds(from, to time.Time) float64 {
	return to.Sub(from).Seconds()
}
