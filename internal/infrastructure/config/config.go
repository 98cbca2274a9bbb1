package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Desktop     DesktopConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Compression CompressionConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// DesktopConfig holds the simulated desktop's settings.
type DesktopConfig struct {
	ViewportWidth  float64 `envconfig:"VIEWPORT_WIDTH" default:"1440"`
	ViewportHeight float64 `envconfig:"VIEWPORT_HEIGHT" default:"900"`
	FrameRate      int     `envconfig:"FRAME_RATE" default:"60"`
	SnapMargin     float64 `envconfig:"SNAP_MARGIN" default:"24"`
	CatalogPath    string  `envconfig:"CATALOG_PATH"`
	Boot           bool    `envconfig:"BOOT_DESKTOP" default:"true"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CompressionConfig holds response compression configuration.
type CompressionConfig struct {
	Gzip bool `envconfig:"HTTP_GZIP" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects settings the desktop cannot run with.
func (c *Config) Validate() error {
	if c.Desktop.ViewportWidth <= 0 || c.Desktop.ViewportHeight <= 0 {
		return fmt.Errorf("viewport must be positive, got %vx%v", c.Desktop.ViewportWidth, c.Desktop.ViewportHeight)
	}
	if c.Desktop.FrameRate <= 0 || c.Desktop.FrameRate > 1000 {
		return fmt.Errorf("frame rate must be in (0, 1000], got %d", c.Desktop.FrameRate)
	}
	if c.Desktop.SnapMargin < 0 {
		return fmt.Errorf("snap margin must not be negative, got %v", c.Desktop.SnapMargin)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Desktop: DesktopConfig{
			ViewportWidth:  1440,
			ViewportHeight: 900,
			FrameRate:      60,
			SnapMargin:     24,
			Boot:           true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
		Compression: CompressionConfig{
			Gzip: true,
		},
	}
}
