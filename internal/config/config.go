// Package config loads the service configuration from YAML with
// environment-variable overrides for secrets and deploy-time knobs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	Transcriber struct {
		APIKey          string `yaml:"api_key"`
		Model           string `yaml:"model"`
		Endpoint        string `yaml:"endpoint"`
		DeadlineSeconds int    `yaml:"deadline_seconds"`
	} `yaml:"transcriber"`

	Limits struct {
		MaxFileSizeMB      int `yaml:"max_file_size_mb"`
		MaxDurationSeconds int `yaml:"max_duration_seconds"`
	} `yaml:"limits"`

	Storage struct {
		TempDir  string `yaml:"temp_dir"`
		Database string `yaml:"database"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	GoogleDrive struct {
		CredentialsFile string `yaml:"credentials_file"`
		TokenFile       string `yaml:"token_file"`
		FolderName      string `yaml:"folder_name"`
	} `yaml:"google_drive"`
}

// Load reads the YAML config at path, applies defaults and environment
// overrides. A missing file is not an error; defaults plus environment are
// enough to run.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := &Config{}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if cfg.Limits.MaxFileSizeMB <= 0 {
		return nil, fmt.Errorf("invalid max_file_size_mb: %d", cfg.Limits.MaxFileSizeMB)
	}
	if cfg.Limits.MaxDurationSeconds <= 0 {
		return nil, fmt.Errorf("invalid max_duration_seconds: %d", cfg.Limits.MaxDurationSeconds)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = "whisper-1"
	}
	if c.Transcriber.Endpoint == "" {
		c.Transcriber.Endpoint = "https://api.openai.com/v1/audio/transcriptions"
	}
	if c.Transcriber.DeadlineSeconds == 0 {
		c.Transcriber.DeadlineSeconds = 120
	}
	if c.Limits.MaxFileSizeMB == 0 {
		c.Limits.MaxFileSizeMB = 50
	}
	if c.Limits.MaxDurationSeconds == 0 {
		c.Limits.MaxDurationSeconds = 1200
	}
	if c.Storage.TempDir == "" {
		c.Storage.TempDir = "temp"
	}
	if c.Storage.Database == "" {
		c.Storage.Database = "data/transcriptions.db"
	}
	if c.Cleanup.IntervalMinutes == 0 {
		c.Cleanup.IntervalMinutes = 30
	}
	if c.Cleanup.MaxAgeHours == 0 {
		c.Cleanup.MaxAgeHours = 6
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.Transcriber.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("MAX_FILE_SIZE_MB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxFileSizeMB = n
		}
	}
	if v := os.Getenv("MAX_DURATION_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Limits.MaxDurationSeconds = n
		}
	}
	if v := os.Getenv("TRANSCRIBE_DEADLINE_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Transcriber.DeadlineSeconds = n
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Storage.Database = v
	}
}

// MaxFileSizeBytes returns the upload/post-transcode ceiling in bytes.
func (c *Config) MaxFileSizeBytes() int64 {
	return int64(c.Limits.MaxFileSizeMB) * 1024 * 1024
}

// Deadline returns the wall-clock budget for one transcription call.
func (c *Config) Deadline() time.Duration {
	return time.Duration(c.Transcriber.DeadlineSeconds) * time.Second
}
