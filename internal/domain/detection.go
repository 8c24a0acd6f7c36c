package domain

import "time"

type Verdict string

type JobStatus string

const (
	VerdictReal      Verdict = "Real"
	VerdictSynthetic Verdict = "Synthetic"
	VerdictUncertain Verdict = "Uncertain"
)

const (
	LabelReal = "Real"
	LabelFake = "Fake"
)

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// ScorePair is the scoring engine output for one frame. The pair is
// expected to be a two-class distribution but the pipeline only consumes
// Fake for thresholding; the sum is never enforced.
type ScorePair struct {
	Real float64 `json:"real"`
	Fake float64 `json:"fake"`
}

// Thresholds are configured decision constants, never content-dependent.
// LegacyFake drives the binary label; Synthetic/Real bound the three-band
// verdict with an explicit dead zone in between.
type Thresholds struct {
	LegacyFake float64
	Synthetic  float64
	Real       float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{LegacyFake: 0.5, Synthetic: 0.7, Real: 0.3}
}

// DetectionResult is immutable once produced by the aggregator.
type DetectionResult struct {
	Label          string    `json:"label"`
	Verdict        Verdict   `json:"verdict"`
	FakeScore      float64   `json:"fake_score"`
	RealScore      float64   `json:"real_score"`
	OverallScore   float64   `json:"overall_score"`
	Confidence     float64   `json:"confidence"`
	FrameScores    []float64 `json:"frame_scores"`
	TotalFrames    int       `json:"total_frames"`
	Artifacts      []string  `json:"artifacts"`
	ProcessingTime float64   `json:"processing_time"`
}

// DetectionJob tracks one submitted analysis. A job mutates exactly once,
// from processing to a terminal state, and is never deleted for the
// process lifetime. MediaPath points at the spooled upload while the job
// is in flight; it is store-internal and never surfaced over the API.
type DetectionJob struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	ModelName   string           `json:"model_name"`
	Status      JobStatus        `json:"status"`
	Result      *DetectionResult `json:"result,omitempty"`
	ErrorDetail string           `json:"error_detail,omitempty"`
	MediaPath   string           `json:"media_path,omitempty"`
	MIMEType    string           `json:"mime_type,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (j DetectionJob) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}

// Aggregate reduces the ordered per-frame score sequence into a single
// result. A single pair degenerates correctly: the mean of one value is
// that value.
func Aggregate(pairs []ScorePair, th Thresholds) (DetectionResult, error) {
	if len(pairs) == 0 {
		return DetectionResult{}, ErrEmptySequence
	}
	var sumFake, sumReal float64
	frameScores := make([]float64, 0, len(pairs))
	for _, pair := range pairs {
		sumFake += pair.Fake
		sumReal += pair.Real
		frameScores = append(frameScores, pair.Fake)
	}
	meanFake := sumFake / float64(len(pairs))
	meanReal := sumReal / float64(len(pairs))

	verdict := VerdictFor(meanFake, th)
	return DetectionResult{
		Label:        LabelFor(meanFake, th),
		Verdict:      verdict,
		FakeScore:    meanFake,
		RealScore:    meanReal,
		OverallScore: meanFake * 100,
		Confidence:   max(meanFake, meanReal) * 100,
		FrameScores:  frameScores,
		TotalFrames:  len(pairs),
		Artifacts:    ArtifactsFor(verdict),
	}, nil
}

func LabelFor(meanFake float64, th Thresholds) string {
	if meanFake >= th.LegacyFake {
		return LabelFake
	}
	return LabelReal
}

func VerdictFor(meanFake float64, th Thresholds) Verdict {
	switch {
	case meanFake >= th.Synthetic:
		return VerdictSynthetic
	case meanFake <= th.Real:
		return VerdictReal
	default:
		return VerdictUncertain
	}
}

// ArtifactsFor is a fixed lookup keyed by verdict. The strings are a
// presentation convenience for the UI, not derived from visual analysis;
// the engine provides no deeper explainability than the scores.
func ArtifactsFor(verdict Verdict) []string {
	switch verdict {
	case VerdictSynthetic:
		return []string{"Inconsistent facial textures", "Temporal inconsistencies across frames"}
	case VerdictReal:
		return []string{"No strong deepfake artifacts detected"}
	default:
		return []string{"Mixed indicators; manual review recommended"}
	}
}
