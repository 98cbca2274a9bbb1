package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

// MetricsAggregator serves a JSON view of the collector alongside desktop state
type MetricsAggregator struct {
	metrics *monitoring.Metrics
	runtime *desktop.Runtime
}

// NewMetricsAggregator creates a metrics aggregator
func NewMetricsAggregator(metrics *monitoring.Metrics, runtime *desktop.Runtime) *MetricsAggregator {
	return &MetricsAggregator{metrics: metrics, runtime: runtime}
}

// MetricsReport is the JSON metrics document
type MetricsReport struct {
	Timestamp time.Time                  `json:"timestamp"`
	Backend   monitoring.MetricsSnapshot `json:"backend"`
	Frames    monitoring.FrameStats      `json:"frames"`
	Kernel    types.Stats                `json:"kernel"`
	Summary   MetricsSummary             `json:"summary"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	IntentFailureRate float64 `json:"intent_failure_rate"`
	ActiveConnections int     `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetAggregatedMetrics returns the metrics report
func (ma *MetricsAggregator) GetAggregatedMetrics(c *gin.Context) {
	snapshot := ma.metrics.Snapshot()
	c.JSON(http.StatusOK, MetricsReport{
		Timestamp: time.Now(),
		Backend:   snapshot,
		Frames:    ma.metrics.FrameStats(),
		Kernel:    ma.runtime.Stats(),
		Summary:   summarize(snapshot, ma.metrics.UptimeDuration()),
	})
}

func summarize(snapshot monitoring.MetricsSnapshot, uptime time.Duration) MetricsSummary {
	var avgLatency float64
	if snapshot.RequestCount > 0 {
		avgLatency = (snapshot.TotalDuration / float64(snapshot.RequestCount)) * 1000
	}

	var errorRate float64
	if snapshot.TotalRequests > 0 {
		errorRate = float64(snapshot.TotalErrors) / float64(snapshot.TotalRequests)
	}

	var intentFailures float64
	if snapshot.IntentsDispatched > 0 {
		intentFailures = float64(snapshot.IntentsFailed) / float64(snapshot.IntentsDispatched)
	}

	return MetricsSummary{
		TotalRequests:     snapshot.TotalRequests,
		AverageLatencyMs:  avgLatency,
		ErrorRate:         errorRate,
		IntentFailureRate: intentFailures,
		ActiveConnections: int(snapshot.ActiveConnections),
		UptimeSeconds:     uptime.Seconds(),
	}
}
