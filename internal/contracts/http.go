package contracts

import "github.com/veriscan/deepfake-detection-service/internal/domain"

// PredictionResponse is the legacy two-class analysis shape.
type PredictionResponse struct {
	Label               string    `json:"label"`
	FakeScore           float64   `json:"fake_score"`
	RealScore           float64   `json:"real_score"`
	FrameScores         []float64 `json:"frame_scores"`
	TotalFramesAnalyzed int       `json:"total_frames_analyzed"`
}

// SubmitResponse acknowledges an accepted detection job.
type SubmitResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// DetectionSnapshot is the job-style result shape polled by the frontend.
// Result fields are zero-valued while the job is still processing.
type DetectionSnapshot struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	ModelName      string    `json:"modelName,omitempty"`
	OverallScore   float64   `json:"overallScore"`
	Verdict        string    `json:"verdict,omitempty"`
	Confidence     float64   `json:"confidence"`
	TotalFrames    int       `json:"totalFrames"`
	PerFrameScores []float64 `json:"perFrameScores"`
	Artifacts      []string  `json:"artifacts"`
	ProcessingTime float64   `json:"processingTime"`
	Error          string    `json:"error,omitempty"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func PredictionFrom(result domain.DetectionResult) PredictionResponse {
	return PredictionResponse{
		Label:               result.Label,
		FakeScore:           result.FakeScore,
		RealScore:           result.RealScore,
		FrameScores:         result.FrameScores,
		TotalFramesAnalyzed: result.TotalFrames,
	}
}

func SnapshotFrom(job domain.DetectionJob) DetectionSnapshot {
	snapshot := DetectionSnapshot{
		ID:             job.ID,
		Status:         string(job.Status),
		ModelName:      job.ModelName,
		PerFrameScores: []float64{},
		Artifacts:      []string{},
		Error:          job.ErrorDetail,
	}
	if job.Result != nil {
		snapshot.OverallScore = job.Result.OverallScore
		snapshot.Verdict = string(job.Result.Verdict)
		snapshot.Confidence = job.Result.Confidence
		snapshot.TotalFrames = job.Result.TotalFrames
		snapshot.PerFrameScores = job.Result.FrameScores
		snapshot.Artifacts = job.Result.Artifacts
		snapshot.ProcessingTime = job.Result.ProcessingTime
	}
	return snapshot
}
