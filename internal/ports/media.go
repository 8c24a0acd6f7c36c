package ports

import (
	"context"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

// MediaInfo is the timing metadata used for duration gating before any
// frame is decoded.
type MediaInfo struct {
	FrameCount float64
	FrameRate  float64
	Width      int
	Height     int
}

// MediaDecoder wraps the trusted video decode primitive.
type MediaDecoder interface {
	Probe(ctx context.Context, path string) (MediaInfo, error)
	OpenFrames(ctx context.Context, path string) (domain.FrameSource, error)
}

// ImageDecoder wraps the trusted still-image decode primitive.
type ImageDecoder interface {
	Decode(data []byte) (domain.Frame, error)
}
