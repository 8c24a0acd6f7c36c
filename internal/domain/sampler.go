package domain

import "fmt"

// SampleFrames drains the source and retains the frames at stream indices
// 0, step, 2*step, ... in original order. Sampling is purely positional;
// frame content is never inspected. A source that yields zero frames is a
// hard ErrEmptySequence, not an empty result.
func SampleFrames(src FrameSource, step int) ([]Frame, error) {
	if step < 1 {
		return nil, fmt.Errorf("%w: sampling step must be >= 1, got %d", ErrInvalidInput, step)
	}
	var kept []Frame
	idx := 0
	for {
		frame, ok, err := src.Next()
		if err != nil {
			return nil, fmt.Errorf("%w: read frame %d: %v", ErrDecode, idx, err)
		}
		if !ok {
			break
		}
		if idx%step == 0 {
			frame.Index = idx
			kept = append(kept, frame)
		}
		idx++
	}
	if len(kept) == 0 {
		return nil, ErrEmptySequence
	}
	return kept, nil
}
