package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cacheadapter "github.com/veriscan/deepfake-detection-service/internal/adapters/cache"
	engineadapter "github.com/veriscan/deepfake-detection-service/internal/adapters/engine"
	eventadapter "github.com/veriscan/deepfake-detection-service/internal/adapters/events"
	httpadapter "github.com/veriscan/deepfake-detection-service/internal/adapters/http"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/media"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/memory"
	"github.com/veriscan/deepfake-detection-service/internal/adapters/storage"
	"github.com/veriscan/deepfake-detection-service/internal/application"
	"github.com/veriscan/deepfake-detection-service/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	worker     *eventadapter.Worker
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	spool, err := storage.NewTempSpool(cfg.SpoolDir)
	if err != nil {
		return nil, err
	}

	engine, err := buildEngine(cfg)
	if err != nil {
		return nil, err
	}
	store, queue, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	service := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:    cfg.ServiceID,
			InputSize:      cfg.InputSize,
			FrameStep:      cfg.FrameStep,
			BatchSize:      cfg.BatchSize,
			MaxDuration:    cfg.MaxDuration(),
			RequestTimeout: cfg.RequestTimeout(),
			Thresholds:     cfg.Thresholds(),
		},
		Store:  store,
		Queue:  queue,
		Spool:  spool,
		Videos: media.NewFFmpegDecoder(),
		Images: media.NewImageDecoder(),
		Engine: engine,
	})

	handler := httpadapter.NewHandler(service)
	router := httpadapter.NewRouter(handler)
	httpServer := &http.Server{Addr: fmt.Sprintf(":%d", cfg.HTTPPort), Handler: router, ReadHeaderTimeout: 5 * time.Second}
	worker := eventadapter.NewWorker(logger, service, cfg.WorkerPollInterval())

	return &Runtime{cfg: cfg, logger: logger, httpServer: httpServer, worker: worker}, nil
}

func buildEngine(cfg Config) (ports.ScoringEngine, error) {
	var engine ports.ScoringEngine
	switch cfg.EngineBackend {
	case "stub":
		engine = engineadapter.NewStub(&engineadapter.StubConfig{ModelName: cfg.EngineModelName})
	case "remote":
		if cfg.EngineRemoteURL == "" {
			return nil, errors.New("engine backend 'remote' requires engine.remote_url")
		}
		engine = engineadapter.NewRemote(cfg.EngineRemoteURL, cfg.EngineModelName, cfg.RequestTimeout())
	default:
		return nil, fmt.Errorf("unknown engine backend %q", cfg.EngineBackend)
	}
	if cfg.EngineSerialized {
		engine = engineadapter.NewSerialized(engine)
	}
	return engine, nil
}

func buildStore(ctx context.Context, cfg Config) (ports.DetectionJobStore, ports.JobQueue, error) {
	switch cfg.StoreBackend {
	case "memory":
		return memory.NewJobStore(), eventadapter.NewMemoryJobQueue(), nil
	case "redis":
		client, err := cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cacheadapter.NewRedisJobStore(client), cacheadapter.NewRedisJobQueue(client), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// RunServer serves the HTTP API with the worker in the same process; the
// memory backend keeps store and queue process-local, so this is the
// default deployment shape.
func (r *Runtime) RunServer(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 2)

	go func() {
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	return nil
}

// RunWorker runs only the polling worker. It requires the redis backend;
// with the memory backend a standalone worker would never see the queue.
func (r *Runtime) RunWorker(ctx context.Context) error {
	if r.cfg.StoreBackend != "redis" {
		return fmt.Errorf("standalone worker requires store backend 'redis', got %q", r.cfg.StoreBackend)
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	errCh := make(chan error, 1)
	go func() {
		if err := r.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errCh <- err
		}
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}
