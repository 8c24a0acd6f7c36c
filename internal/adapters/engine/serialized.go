package engine

import (
	"context"
	"sync"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
	"github.com/veriscan/deepfake-detection-service/internal/ports"
)

// Serialized wraps an engine that is not safely reentrant with a
// single-slot execution queue: one batch in flight across all requests.
type Serialized struct {
	mu    sync.Mutex
	inner ports.ScoringEngine
}

func NewSerialized(inner ports.ScoringEngine) *Serialized {
	return &Serialized{inner: inner}
}

func (s *Serialized) ModelName() string {
	return s.inner.ModelName()
}

func (s *Serialized) Score(ctx context.Context, batch []domain.NormalizedFrame) ([]domain.ScorePair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Score(ctx, batch)
}
