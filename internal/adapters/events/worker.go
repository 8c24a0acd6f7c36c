package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/veriscan/deepfake-detection-service/internal/application"
)

// Worker polls the queue and drives one pipeline run per dequeued job.
// A job failure is recorded on the job itself; here it is only logged.
type Worker struct {
	logger       *slog.Logger
	service      *application.Service
	pollInterval time.Duration
}

func NewWorker(logger *slog.Logger, service *application.Service, pollInterval time.Duration) *Worker {
	return &Worker{logger: logger, service: service, pollInterval: pollInterval}
}

func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// drain processes queued jobs until the queue is idle so a burst of
// submissions does not wait one poll interval per job.
func (w *Worker) drain(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		err := w.service.ProcessNextJob(ctx)
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		w.logger.ErrorContext(ctx, "detection job failed", "error", err)
	}
}
