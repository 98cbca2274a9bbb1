// Package main is the entry point for the SpatialOS desktop server.
//
// The server hosts a simulated spatial desktop: a window kernel, an intent
// dispatcher fed by free-text commands or structured intents, and a spring
// physics loop that renderers watch over a WebSocket stream.
//
// Architecture:
//
//	Renderer ⇄ REST (/commands, /intents, /windows/...) → Desktop runtime
//	Renderer ← WebSocket (/stream) frames              ← Frame loop
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 8000 -catalog ./apps.yaml
//
//	# Development mode (coloured logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
