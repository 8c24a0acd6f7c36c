package media

import (
	"context"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
	"github.com/veriscan/deepfake-detection-service/internal/ports"
)

// SyntheticDecoder fabricates a video stream from configuration instead of
// decoding a file. Frames are uniformly filled with Fill so downstream
// scores are predictable.
type SyntheticDecoder struct {
	FrameCount int
	FrameRate  float64
	Width      int
	Height     int
	Fill       uint8
	ProbeErr   error
	StreamErr  error
}

func (d *SyntheticDecoder) Probe(_ context.Context, _ string) (ports.MediaInfo, error) {
	if d.ProbeErr != nil {
		return ports.MediaInfo{}, d.ProbeErr
	}
	return ports.MediaInfo{
		FrameCount: float64(d.FrameCount),
		FrameRate:  d.FrameRate,
		Width:      d.Width,
		Height:     d.Height,
	}, nil
}

func (d *SyntheticDecoder) OpenFrames(_ context.Context, _ string) (domain.FrameSource, error) {
	if d.StreamErr != nil {
		return nil, d.StreamErr
	}
	return &syntheticSource{decoder: d}, nil
}

type syntheticSource struct {
	decoder *SyntheticDecoder
	index   int
}

func (s *syntheticSource) Next() (domain.Frame, bool, error) {
	if s.index >= s.decoder.FrameCount {
		return domain.Frame{}, false, nil
	}
	pixels := make([]uint8, s.decoder.Width*s.decoder.Height*3)
	for i := range pixels {
		pixels[i] = s.decoder.Fill
	}
	frame := domain.Frame{
		Index:  s.index,
		Width:  s.decoder.Width,
		Height: s.decoder.Height,
		Format: domain.FormatRGB,
		Pixels: pixels,
	}
	s.index++
	return frame, true, nil
}

func (s *syntheticSource) Close() error { return nil }

// SliceSource yields a preset frame slice; handy for sampler tests.
type SliceSource struct {
	Frames []domain.Frame
	Err    error
	pos    int
}

func (s *SliceSource) Next() (domain.Frame, bool, error) {
	if s.Err != nil {
		return domain.Frame{}, false, s.Err
	}
	if s.pos >= len(s.Frames) {
		return domain.Frame{}, false, nil
	}
	frame := s.Frames[s.pos]
	s.pos++
	return frame, true, nil
}

func (s *SliceSource) Close() error { return nil }
