package application

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// AnalyzeVideo runs the pipeline inline and returns the legacy two-class
// result. The spooled upload is released on every exit path.
func (s *Service) AnalyzeVideo(ctx context.Context, upload MediaUpload) (domain.DetectionResult, error) {
	if !strings.HasPrefix(upload.ContentType, "video/") {
		return domain.DetectionResult{}, fmt.Errorf("%w: expected a video upload, got %q", domain.ErrInvalidInput, upload.ContentType)
	}
	path, err := s.spool.Save(ctx, upload.Reader, filepath.Ext(upload.Filename))
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("spool upload: %w", err)
	}
	defer func() { _ = s.spool.Remove(path) }()

	started := s.nowFn()
	result, err := s.analyzeVideoFile(ctx, path)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	result.ProcessingTime = s.nowFn().Sub(started).Seconds()
	return result, nil
}

// AnalyzeImage scores a single still image. The degenerate one-frame
// sequence flows through the same batching and aggregation path.
func (s *Service) AnalyzeImage(ctx context.Context, upload MediaUpload) (domain.DetectionResult, error) {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return domain.DetectionResult{}, fmt.Errorf("%w: expected an image upload, got %q", domain.ErrInvalidInput, upload.ContentType)
	}
	data, err := io.ReadAll(upload.Reader)
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("%w: read upload: %v", domain.ErrInvalidInput, err)
	}
	frame, err := s.images.Decode(data)
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("%w: decode image: %v", domain.ErrInvalidInput, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	started := s.nowFn()
	result, err := s.scoreAndAggregate(ctx, []domain.Frame{frame})
	if err != nil {
		return domain.DetectionResult{}, err
	}
	result.ProcessingTime = s.nowFn().Sub(started).Seconds()
	return result, nil
}

// SubmitDetection accepts a job-style request: the upload is spooled, a
// processing job is recorded and its id queued for the worker, and the
// caller gets the id back immediately for polling.
func (s *Service) SubmitDetection(ctx context.Context, upload MediaUpload, displayName string) (domain.DetectionJob, error) {
	if !strings.HasPrefix(upload.ContentType, "video/") {
		return domain.DetectionJob{}, fmt.Errorf("%w: expected a video upload, got %q", domain.ErrInvalidInput, upload.ContentType)
	}
	if strings.TrimSpace(displayName) == "" {
		displayName = upload.Filename
	}
	path, err := s.spool.Save(ctx, upload.Reader, filepath.Ext(upload.Filename))
	if err != nil {
		return domain.DetectionJob{}, fmt.Errorf("spool upload: %w", err)
	}

	job := domain.DetectionJob{
		ID:          uuid.NewString(),
		DisplayName: strings.TrimSpace(displayName),
		ModelName:   s.engine.ModelName(),
		Status:      domain.JobStatusProcessing,
		MediaPath:   path,
		MIMEType:    upload.ContentType,
		CreatedAt:   s.nowFn(),
	}
	if err := s.store.Create(ctx, job); err != nil {
		_ = s.spool.Remove(path)
		return domain.DetectionJob{}, err
	}
	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		_ = s.store.Fail(ctx, job.ID, "job queue unavailable")
		_ = s.spool.Remove(path)
		return domain.DetectionJob{}, fmt.Errorf("enqueue job: %w", err)
	}
	return job, nil
}

func (s *Service) GetDetection(ctx context.Context, id string) (domain.DetectionJob, error) {
	return s.store.Get(ctx, strings.TrimSpace(id))
}

func (s *Service) ListDetections(ctx context.Context) ([]domain.DetectionJob, error) {
	return s.store.List(ctx)
}
