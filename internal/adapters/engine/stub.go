package engine

import (
	"context"
	"time"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// StubConfig configures the stub engine behavior.
type StubConfig struct {
	// ModelName is reported on job records.
	ModelName string
	// ProcessingDelay simulates inference time per batch.
	ProcessingDelay time.Duration
	// FixedPair, when set, is returned for every frame regardless of
	// content. Useful for pinning verdicts in tests.
	FixedPair *domain.ScorePair
}

func DefaultStubConfig() *StubConfig {
	return &StubConfig{ModelName: "Enhanced CNN (10k images)"}
}

// Stub is a deterministic in-process engine: the fake probability of a
// frame is its mean normalized pixel intensity. It carries no model and
// exists so the pipeline can run without an inference backend.
type Stub struct {
	config *StubConfig
}

func NewStub(config *StubConfig) *Stub {
	if config == nil {
		config = DefaultStubConfig()
	}
	return &Stub{config: config}
}

func (s *Stub) ModelName() string {
	return s.config.ModelName
}

func (s *Stub) Score(ctx context.Context, batch []domain.NormalizedFrame) ([]domain.ScorePair, error) {
	if s.config.ProcessingDelay > 0 {
		select {
		case <-time.After(s.config.ProcessingDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	pairs := make([]domain.ScorePair, 0, len(batch))
	for _, frame := range batch {
		if s.config.FixedPair != nil {
			pairs = append(pairs, *s.config.FixedPair)
			continue
		}
		fake := meanIntensity(frame)
		pairs = append(pairs, domain.ScorePair{Real: 1 - fake, Fake: fake})
	}
	return pairs, nil
}

func meanIntensity(frame domain.NormalizedFrame) float64 {
	if len(frame.Pixels) == 0 {
		return 0
	}
	var sum float64
	for _, v := range frame.Pixels {
		sum += float64(v)
	}
	return sum / float64(len(frame.Pixels))
}
