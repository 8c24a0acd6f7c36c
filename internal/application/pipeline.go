package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// analyzeVideoFile runs the full pipeline over a spooled video:
// gate duration, sample, normalize, score, aggregate. The duration gate
// runs before any frame is decoded so oversized uploads fail fast.
func (s *Service) analyzeVideoFile(ctx context.Context, path string) (domain.DetectionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	defer cancel()

	info, err := s.videos.Probe(ctx, path)
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("%w: probe video: %v", domain.ErrInvalidInput, err)
	}
	if info.FrameRate <= 0 {
		return domain.DetectionResult{}, fmt.Errorf("%w: no usable timing metadata (frame rate %.3f)", domain.ErrInvalidInput, info.FrameRate)
	}
	duration := info.FrameCount / info.FrameRate
	if duration <= 0 {
		return domain.DetectionResult{}, fmt.Errorf("%w: computed duration %.3fs", domain.ErrInvalidInput, duration)
	}
	if duration > s.cfg.MaxDuration.Seconds() {
		return domain.DetectionResult{}, fmt.Errorf("%w: %.1fs exceeds the %.0fs ceiling", domain.ErrMediaTooLong, duration, s.cfg.MaxDuration.Seconds())
	}

	src, err := s.videos.OpenFrames(ctx, path)
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("%w: open frames: %v", domain.ErrDecode, err)
	}
	defer src.Close()

	frames, err := domain.SampleFrames(src, s.cfg.FrameStep)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	return s.scoreAndAggregate(ctx, frames)
}

func (s *Service) scoreAndAggregate(ctx context.Context, frames []domain.Frame) (domain.DetectionResult, error) {
	normalized := make([]domain.NormalizedFrame, len(frames))
	for i, frame := range frames {
		normalized[i] = frame.Normalize(s.cfg.InputSize)
	}
	pairs, err := s.scoreFrames(ctx, normalized)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	return domain.Aggregate(pairs, s.cfg.Thresholds)
}

// scoreFrames partitions the sequence into consecutive chunks of at most
// BatchSize and invokes the engine once per chunk. Chunks run sequentially:
// engine reentrancy is not assumed. A chunk whose output count differs from
// its input count is a contract violation and fatal for the request.
func (s *Service) scoreFrames(ctx context.Context, frames []domain.NormalizedFrame) ([]domain.ScorePair, error) {
	pairs := make([]domain.ScorePair, 0, len(frames))
	for start := 0; start < len(frames); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(frames))
		chunk := frames[start:end]
		scored, err := s.engine.Score(ctx, chunk)
		if err != nil {
			if errors.Is(err, domain.ErrScoringEngine) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", domain.ErrScoringEngine, err)
		}
		if len(scored) != len(chunk) {
			return nil, fmt.Errorf("%w: engine returned %d scores for a %d-frame batch", domain.ErrScoringEngine, len(scored), len(chunk))
		}
		pairs = append(pairs, scored...)
	}
	return pairs, nil
}
