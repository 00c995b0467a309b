package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danghoangnhan/vidscribe/internal/domain"
)

type Config struct {
	Backends BackendsConfig `yaml:"backends"`
	Download DownloadConfig `yaml:"download"`
	Audio    AudioConfig    `yaml:"audio"`
	Storage  StorageConfig  `yaml:"storage"`
	Paths    PathsConfig    `yaml:"paths"`
	Retry    RetryConfig    `yaml:"retry"`
	Batch    BatchConfig    `yaml:"batch"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Export   ExportConfig   `yaml:"export"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type BackendsConfig struct {
	Default string        `yaml:"default"`
	Gemini  GeminiConfig  `yaml:"gemini"`
	Whisper WhisperConfig `yaml:"whisper"`
}

type GeminiConfig struct {
	APIKeys        []string `yaml:"api_keys"`
	Model          string   `yaml:"model"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type WhisperConfig struct {
	BinaryPath     string   `yaml:"binary_path"`
	ModelPath      string   `yaml:"model_path"`
	Threads        int      `yaml:"threads"`
	Languages      []string `yaml:"languages"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type DownloadConfig struct {
	YtDlpPath      string `yaml:"yt_dlp_path"`
	Quality        string `yaml:"quality"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type AudioConfig struct {
	Format         string `yaml:"format"`
	SampleRate     int    `yaml:"sample_rate"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type PathsConfig struct {
	Temp   string `yaml:"temp"`
	Output string `yaml:"output"`
}

type RetryConfig struct {
	MaxAttempts       int     `yaml:"max_attempts"`
	BackoffMultiplier float64 `yaml:"backoff_multiplier"`
}

type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type ScheduleConfig struct {
	Cron     string `yaml:"cron"`
	InputDir string `yaml:"input_dir"`
}

type ExportConfig struct {
	Docx bool `yaml:"docx"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate applies defaults and rejects invalid configuration with a
// configuration-invalid error. It must pass before the config is handed
// to the dependency factory.
func (c *Config) Validate() error {
	if c.Backends.Default == "" {
		c.Backends.Default = "gemini"
	}
	switch c.Backends.Default {
	case "gemini":
		if len(c.Backends.Gemini.APIKeys) == 0 {
			return domain.ConfigurationInvalid("backends.gemini.api_keys is required when gemini is the default backend")
		}
	case "whisper":
		if c.Backends.Whisper.BinaryPath == "" {
			return domain.ConfigurationInvalid("backends.whisper.binary_path is required when whisper is the default backend")
		}
		if c.Backends.Whisper.ModelPath == "" {
			return domain.ConfigurationInvalid("backends.whisper.model_path is required when whisper is the default backend")
		}
	default:
		return domain.ConfigurationInvalid(fmt.Sprintf("backends.default %q is not a recognized backend", c.Backends.Default))
	}

	if c.Backends.Gemini.Model == "" {
		c.Backends.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Backends.Gemini.TimeoutSeconds == 0 {
		c.Backends.Gemini.TimeoutSeconds = 120
	}
	if c.Backends.Whisper.Threads == 0 {
		c.Backends.Whisper.Threads = 8
	}
	if len(c.Backends.Whisper.Languages) == 0 {
		c.Backends.Whisper.Languages = []string{"auto", "en", "vi", "pt", "es", "fr", "de", "it", "ja", "ko", "zh"}
	}
	if c.Backends.Whisper.TimeoutSeconds == 0 {
		c.Backends.Whisper.TimeoutSeconds = 1800
	}

	if c.Download.Quality == "" {
		c.Download.Quality = "720"
	}
	if c.Download.TimeoutSeconds == 0 {
		c.Download.TimeoutSeconds = 600
	}

	if c.Audio.Format == "" {
		c.Audio.Format = "wav"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.TimeoutSeconds == 0 {
		c.Audio.TimeoutSeconds = 300
	}

	if c.Storage.Path == "" {
		c.Storage.Path = "data/vidscribe.db"
	}
	if c.Paths.Temp == "" {
		c.Paths.Temp = "data/temp"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}

	if c.Retry.MaxAttempts == 0 {
		c.Retry.MaxAttempts = 3
	}
	if c.Retry.BackoffMultiplier == 0 {
		c.Retry.BackoffMultiplier = 2
	}
	if c.Batch.MaxConcurrent == 0 {
		c.Batch.MaxConcurrent = 2
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	for name, v := range map[string]int{
		"backends.gemini.timeout_seconds":  c.Backends.Gemini.TimeoutSeconds,
		"backends.whisper.threads":         c.Backends.Whisper.Threads,
		"backends.whisper.timeout_seconds": c.Backends.Whisper.TimeoutSeconds,
		"download.timeout_seconds":         c.Download.TimeoutSeconds,
		"audio.sample_rate":                c.Audio.SampleRate,
		"audio.timeout_seconds":            c.Audio.TimeoutSeconds,
		"retry.max_attempts":               c.Retry.MaxAttempts,
		"batch.max_concurrent":             c.Batch.MaxConcurrent,
	} {
		if v < 0 {
			return domain.ConfigurationInvalid(fmt.Sprintf("%s must be positive", name))
		}
	}
	if c.Retry.BackoffMultiplier < 0 {
		return domain.ConfigurationInvalid("retry.backoff_multiplier must be positive")
	}

	return nil
}
