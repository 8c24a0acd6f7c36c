package ports

import (
	"context"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// ScoringEngine is the external classifier: a batch of normalized frames
// in, one probability pair per frame out, in input order. Implementations
// are not assumed reentrant; callers that share an engine across requests
// must serialize access unless the implementation says otherwise.
type ScoringEngine interface {
	Score(ctx context.Context, batch []domain.NormalizedFrame) ([]domain.ScorePair, error)
	ModelName() string
}
