package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/veriscan/deepfake-detection-service/internal/domain"
)

type Config struct {
	ServiceID string
	HTTPPort  int

	EngineBackend    string
	EngineRemoteURL  string
	EngineModelName  string
	EngineSerialized bool

	StoreBackend string
	RedisURL     string

	InputSize          int
	FrameStep          int
	BatchSize          int
	MaxDurationSeconds float64
	LegacyThreshold    float64
	SyntheticThreshold float64
	RealThreshold      float64
	RequestTimeoutSecs int

	WorkerPollMillis int
	SpoolDir         string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
	} `yaml:"service"`
	Engine struct {
		Backend    string `yaml:"backend"`
		RemoteURL  string `yaml:"remote_url"`
		ModelName  string `yaml:"model_name"`
		Serialized *bool  `yaml:"serialized"`
	} `yaml:"engine"`
	Store struct {
		Backend  string `yaml:"backend"`
		RedisURL string `yaml:"redis_url"`
	} `yaml:"store"`
	Pipeline struct {
		InputSize          int     `yaml:"input_size"`
		FrameStep          int     `yaml:"frame_step"`
		BatchSize          int     `yaml:"batch_size"`
		MaxDurationSeconds float64 `yaml:"max_duration_seconds"`
		LegacyThreshold    float64 `yaml:"legacy_threshold"`
		SyntheticThreshold float64 `yaml:"synthetic_threshold"`
		RealThreshold      float64 `yaml:"real_threshold"`
		RequestTimeoutSecs int     `yaml:"request_timeout_seconds"`
	} `yaml:"pipeline"`
	Worker struct {
		PollMillis int `yaml:"poll_ms"`
	} `yaml:"worker"`
	Spool struct {
		Dir string `yaml:"dir"`
	} `yaml:"spool"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:          "deepfake-detection-service",
		HTTPPort:           8080,
		EngineBackend:      "stub",
		EngineModelName:    "Enhanced CNN (10k images)",
		EngineSerialized:   true,
		StoreBackend:       "memory",
		InputSize:          128,
		FrameStep:          2,
		BatchSize:          64,
		MaxDurationSeconds: 240,
		LegacyThreshold:    0.5,
		SyntheticThreshold: 0.7,
		RealThreshold:      0.3,
		RequestTimeoutSecs: 120,
		WorkerPollMillis:   500,
	}
	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Engine.Backend != "" {
			cfg.EngineBackend = f.Engine.Backend
		}
		if f.Engine.RemoteURL != "" {
			cfg.EngineRemoteURL = f.Engine.RemoteURL
		}
		if f.Engine.ModelName != "" {
			cfg.EngineModelName = f.Engine.ModelName
		}
		if f.Engine.Serialized != nil {
			cfg.EngineSerialized = *f.Engine.Serialized
		}
		if f.Store.Backend != "" {
			cfg.StoreBackend = f.Store.Backend
		}
		if f.Store.RedisURL != "" {
			cfg.RedisURL = f.Store.RedisURL
		}
		if f.Pipeline.InputSize > 0 {
			cfg.InputSize = f.Pipeline.InputSize
		}
		if f.Pipeline.FrameStep > 0 {
			cfg.FrameStep = f.Pipeline.FrameStep
		}
		if f.Pipeline.BatchSize > 0 {
			cfg.BatchSize = f.Pipeline.BatchSize
		}
		if f.Pipeline.MaxDurationSeconds > 0 {
			cfg.MaxDurationSeconds = f.Pipeline.MaxDurationSeconds
		}
		if f.Pipeline.LegacyThreshold > 0 {
			cfg.LegacyThreshold = f.Pipeline.LegacyThreshold
		}
		if f.Pipeline.SyntheticThreshold > 0 {
			cfg.SyntheticThreshold = f.Pipeline.SyntheticThreshold
		}
		if f.Pipeline.RealThreshold > 0 {
			cfg.RealThreshold = f.Pipeline.RealThreshold
		}
		if f.Pipeline.RequestTimeoutSecs > 0 {
			cfg.RequestTimeoutSecs = f.Pipeline.RequestTimeoutSecs
		}
		if f.Worker.PollMillis > 0 {
			cfg.WorkerPollMillis = f.Worker.PollMillis
		}
		if f.Spool.Dir != "" {
			cfg.SpoolDir = f.Spool.Dir
		}
	}
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.EngineBackend = envOrDefault("ENGINE_BACKEND", cfg.EngineBackend)
	cfg.EngineRemoteURL = envOrDefault("ENGINE_REMOTE_URL", cfg.EngineRemoteURL)
	cfg.EngineModelName = envOrDefault("ENGINE_MODEL_NAME", cfg.EngineModelName)
	cfg.EngineSerialized = envBool("ENGINE_SERIALIZED", cfg.EngineSerialized)
	cfg.StoreBackend = envOrDefault("STORE_BACKEND", cfg.StoreBackend)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.WorkerPollMillis = envInt("WORKER_POLL_MS", cfg.WorkerPollMillis)
	cfg.SpoolDir = envOrDefault("SPOOL_DIR", cfg.SpoolDir)
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envBool(name string, fallback bool) bool {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	default:
		return fallback
	}
}

func (c Config) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSeconds * float64(time.Second))
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

func (c Config) WorkerPollInterval() time.Duration {
	return time.Duration(c.WorkerPollMillis) * time.Millisecond
}

func (c Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		LegacyFake: c.LegacyThreshold,
		Synthetic:  c.SyntheticThreshold,
		Real:       c.RealThreshold,
	}
}
