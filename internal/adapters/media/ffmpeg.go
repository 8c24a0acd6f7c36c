package media

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
	"github.com/veriscan/deepfake-detection-service/internal/ports"
)

// FFmpegDecoder drives ffprobe/ffmpeg as the trusted video decode
// primitive: ffprobe for timing metadata, ffmpeg for a raw RGB frame
// stream over a pipe.
type FFmpegDecoder struct {
	ffprobePath string
	ffmpegPath  string
}

func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{ffprobePath: "ffprobe", ffmpegPath: "ffmpeg"}
}

type probeOutput struct {
	Streams []struct {
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
		NbFrames     string `json:"nb_frames"`
		Duration     string `json:"duration"`
	} `json:"streams"`
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (d *FFmpegDecoder) Probe(ctx context.Context, path string) (ports.MediaInfo, error) {
	cmd := exec.CommandContext(ctx, d.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,nb_frames,duration",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	raw, err := cmd.Output()
	if err != nil {
		return ports.MediaInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var probed probeOutput
	if err := json.Unmarshal(raw, &probed); err != nil {
		return ports.MediaInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(probed.Streams) == 0 {
		return ports.MediaInfo{}, errors.New("no video stream")
	}
	stream := probed.Streams[0]

	info := ports.MediaInfo{
		Width:     stream.Width,
		Height:    stream.Height,
		FrameRate: parseRational(stream.AvgFrameRate),
	}
	if count, err := strconv.ParseFloat(stream.NbFrames, 64); err == nil && count > 0 {
		info.FrameCount = count
		return info, nil
	}
	// Some containers omit nb_frames; fall back to duration * rate.
	duration := parseFloat(stream.Duration)
	if duration <= 0 {
		duration = parseFloat(probed.Format.Duration)
	}
	info.FrameCount = duration * info.FrameRate
	return info, nil
}

func (d *FFmpegDecoder) OpenFrames(ctx context.Context, path string) (domain.FrameSource, error) {
	info, err := d.Probe(ctx, path)
	if err != nil {
		return nil, err
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, fmt.Errorf("invalid frame dimensions %dx%d", info.Width, info.Height)
	}
	cmd := exec.CommandContext(ctx, d.ffmpegPath,
		"-v", "error",
		"-i", path,
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-",
	)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start ffmpeg: %w", err)
	}
	return &rawFrameSource{
		cmd:    cmd,
		stdout: stdout,
		width:  info.Width,
		height: info.Height,
	}, nil
}

type rawFrameSource struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int
	index  int
	done   bool
}

func (s *rawFrameSource) Next() (domain.Frame, bool, error) {
	if s.done {
		return domain.Frame{}, false, nil
	}
	pixels := make([]uint8, s.width*s.height*3)
	_, err := io.ReadFull(s.stdout, pixels)
	if errors.Is(err, io.EOF) {
		s.done = true
		return domain.Frame{}, false, nil
	}
	if err != nil {
		s.done = true
		return domain.Frame{}, false, fmt.Errorf("read raw frame %d: %w", s.index, err)
	}
	frame := domain.Frame{
		Index:  s.index,
		Width:  s.width,
		Height: s.height,
		Format: domain.FormatRGB,
		Pixels: pixels,
	}
	s.index++
	return frame, true, nil
}

func (s *rawFrameSource) Close() error {
	_ = s.stdout.Close()
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.cmd.Wait()
	return nil
}

// parseRational handles ffprobe's "num/den" frame rate notation.
func parseRational(raw string) float64 {
	num, den, found := strings.Cut(raw, "/")
	if !found {
		return parseFloat(raw)
	}
	n := parseFloat(num)
	d := parseFloat(den)
	if d == 0 {
		return 0
	}
	return n / d
}

func parseFloat(raw string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0
	}
	return value
}
