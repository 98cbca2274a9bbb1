/*
Package monitoring provides metrics collection for the desktop server.

# Overview

Prometheus collectors track HTTP traffic, window lifecycle, intent
dispatch outcomes, frame loop timing and WebSocket streams. A rolling
window of frame durations is summarised with gonum/stat for the health
endpoint.

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record domain events
	metrics.RecordIntent("SNAP_WINDOW", true)
	metrics.RecordFrame(elapsed)

	// Inspect recent frame timing
	stats := metrics.FrameStats()

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
