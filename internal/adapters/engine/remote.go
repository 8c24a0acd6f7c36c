package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// Remote calls an inference server over HTTP JSON: a batch of flattened
// normalized frames in, one [real, fake] pair per frame out.
type Remote struct {
	endpoint  string
	modelName string
	client    *http.Client
}

func NewRemote(endpoint, modelName string, timeout time.Duration) *Remote {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Remote{
		endpoint:  endpoint,
		modelName: modelName,
		client:    &http.Client{Timeout: timeout},
	}
}

func (r *Remote) ModelName() string {
	return r.modelName
}

type scoreRequest struct {
	Frames [][]float32 `json:"frames"`
}

type scoreResponse struct {
	Scores [][2]float64 `json:"scores"`
}

func (r *Remote) Score(ctx context.Context, batch []domain.NormalizedFrame) ([]domain.ScorePair, error) {
	payload := scoreRequest{Frames: make([][]float32, 0, len(batch))}
	for _, frame := range batch {
		payload.Frames = append(payload.Frames, frame.Pixels)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode score request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build score request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call scoring engine: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scoring engine returned %d: %s", resp.StatusCode, detail)
	}

	var decoded scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode score response: %w", err)
	}
	pairs := make([]domain.ScorePair, 0, len(decoded.Scores))
	for _, pair := range decoded.Scores {
		pairs = append(pairs, domain.ScorePair{Real: pair[0], Fake: pair[1]})
	}
	return pairs, nil
}
