// Package config provides 12-factor configuration management for the desktop server.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Desktop: viewport, frame rate, layout margin, catalog, boot
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Compression: gzip for REST responses
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - VIEWPORT_WIDTH, VIEWPORT_HEIGHT, FRAME_RATE, SNAP_MARGIN, CATALOG_PATH, BOOT_DESKTOP
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - HTTP_GZIP
package config
