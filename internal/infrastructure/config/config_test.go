package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Desktop config
	assert.Equal(t, 1440.0, cfg.Desktop.ViewportWidth)
	assert.Equal(t, 900.0, cfg.Desktop.ViewportHeight)
	assert.Equal(t, 60, cfg.Desktop.FrameRate)
	assert.Equal(t, 24.0, cfg.Desktop.SnapMargin)
	assert.Empty(t, cfg.Desktop.CatalogPath)
	assert.True(t, cfg.Desktop.Boot)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 200, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.True(t, cfg.Compression.Gzip)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	// Setup environment variables
	envVars := map[string]string{
		"PORT":               "9000",
		"HOST":               "127.0.0.1",
		"VIEWPORT_WIDTH":     "1920",
		"VIEWPORT_HEIGHT":    "1080",
		"FRAME_RATE":         "120",
		"SNAP_MARGIN":        "16",
		"CATALOG_PATH":       "/etc/desktop/catalog.toml",
		"BOOT_DESKTOP":       "false",
		"LOG_LEVEL":          "debug",
		"LOG_DEV":            "true",
		"RATE_LIMIT_RPS":     "500",
		"RATE_LIMIT_BURST":   "1000",
		"RATE_LIMIT_ENABLED": "false",
		"HTTP_GZIP":          "false",
	}

	// Set environment variables
	for key, value := range envVars {
		err := os.Setenv(key, value)
		require.NoError(t, err)
		defer os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)

	assert.Equal(t, 1920.0, cfg.Desktop.ViewportWidth)
	assert.Equal(t, 1080.0, cfg.Desktop.ViewportHeight)
	assert.Equal(t, 120, cfg.Desktop.FrameRate)
	assert.Equal(t, 16.0, cfg.Desktop.SnapMargin)
	assert.Equal(t, "/etc/desktop/catalog.toml", cfg.Desktop.CatalogPath)
	assert.False(t, cfg.Desktop.Boot)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)

	assert.Equal(t, 500, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 1000, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)

	assert.False(t, cfg.Compression.Gzip)
}

func TestLoadWithPartialEnvironmentVariables(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Verify overridden values
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Verify default values still apply
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 60, cfg.Desktop.FrameRate)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric rate", "FRAME_RATE", "fast"},
		{"zero rate", "FRAME_RATE", "0"},
		{"negative width", "VIEWPORT_WIDTH", "-1"},
		{"negative margin", "SNAP_MARGIN", "-4"},
		{"bad bool", "BOOT_DESKTOP", "perhaps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)

			// LoadOrDefault falls back rather than failing
			assert.Equal(t, Default(), LoadOrDefault())
		})
	}
}
