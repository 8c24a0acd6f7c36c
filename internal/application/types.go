package application

import (
	"io"
	"time"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
	"github.com/veriscan/deepfake-detection-service/internal/ports"
)

type Config struct {
	ServiceName    string
	InputSize      int
	FrameStep      int
	BatchSize      int
	MaxDuration    time.Duration
	RequestTimeout time.Duration
	Thresholds     domain.Thresholds
}

// MediaUpload is a transient reference to uploaded bytes. The reader is
// owned by the request that created it and is only valid for its scope.
type MediaUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

type Service struct {
	cfg Config

	store  ports.DetectionJobStore
	queue  ports.JobQueue
	spool  ports.MediaSpool
	videos ports.MediaDecoder
	images ports.ImageDecoder
	engine ports.ScoringEngine

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config

	Store  ports.DetectionJobStore
	Queue  ports.JobQueue
	Spool  ports.MediaSpool
	Videos ports.MediaDecoder
	Images ports.ImageDecoder
	Engine ports.ScoringEngine
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "deepfake-detection-service"
	}
	if cfg.InputSize <= 0 {
		cfg.InputSize = 128
	}
	if cfg.FrameStep <= 0 {
		cfg.FrameStep = 2
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 64
	}
	if cfg.MaxDuration <= 0 {
		cfg.MaxDuration = 240 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 120 * time.Second
	}
	zero := domain.Thresholds{}
	if cfg.Thresholds == zero {
		cfg.Thresholds = domain.DefaultThresholds()
	}
	return &Service{
		cfg:    cfg,
		store:  deps.Store,
		queue:  deps.Queue,
		spool:  deps.Spool,
		videos: deps.Videos,
		images: deps.Images,
		engine: deps.Engine,
		nowFn:  func() time.Time { return time.Now().UTC() },
	}
}
