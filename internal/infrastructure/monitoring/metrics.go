package monitoring

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Window metrics
	WindowsOpen  prometheus.Gauge
	WindowsTotal prometheus.Counter
	FocusTotal   prometheus.Counter

	// Intent metrics
	IntentsTotal *prometheus.CounterVec

	// Physics metrics
	DragsTotal       prometheus.Counter
	FrameDuration    prometheus.Histogram
	FrameTasks       prometheus.Gauge
	PhysicsDefects   *prometheus.CounterVec
	FramesDropped    prometheus.Counter
	FrameSubscribers prometheus.Gauge

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	// System metrics
	Uptime    prometheus.GaugeFunc
	startTime time.Time

	frames *FrameWindow

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenWindows       int64   `json:"open_windows"`
	IntentsDispatched int64   `json:"intents_dispatched"`
	IntentsFailed     int64   `json:"intents_failed"`
	ActiveConnections int64   `json:"active_connections"`
	TotalDuration     float64 `json:"total_duration"` // sum of all request durations
	RequestCount      int64   `json:"request_count"`  // count for averaging
}

// NewMetrics creates a metrics collector registered with the default registry
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith creates a metrics collector registered with reg. Tests
// pass a fresh prometheus.NewRegistry to avoid duplicate registration.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{
		startTime: time.Now(),
		frames:    NewFrameWindow(DefaultFrameWindow),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "desktop_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		// Window metrics
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_windows_open",
				Help: "Number of windows currently held by the kernel",
			},
		),
		WindowsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_windows_total",
				Help: "Total number of windows opened",
			},
		),
		FocusTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_focus_total",
				Help: "Total number of focus changes",
			},
		),

		// Intent metrics
		IntentsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_intents_total",
				Help: "Total number of intents dispatched",
			},
			[]string{"opcode", "outcome"},
		),

		// Physics metrics
		DragsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_drags_total",
				Help: "Total number of completed window drags",
			},
		),
		FrameDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "desktop_frame_duration_seconds",
				Help:    "Time spent running all frame tasks for one tick",
				Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .016, .033},
			},
		),
		FrameTasks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_frame_tasks",
				Help: "Number of registered per-window frame tasks",
			},
		),
		PhysicsDefects: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_physics_defects_total",
				Help: "Numeric defects caught while stepping bodies",
			},
			[]string{"kind"},
		),
		FramesDropped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "desktop_frames_dropped_total",
				Help: "Render frames dropped for slow subscribers",
			},
		),
		FrameSubscribers: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_frame_subscribers",
				Help: "Number of render frame subscribers",
			},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "desktop_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "desktop_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "desktop_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.TotalDuration += duration.Seconds()
	m.snapshot.RequestCount++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordIntent records a dispatched intent and whether it succeeded
func (m *Metrics) RecordIntent(opcode string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "rejected"
	}
	m.IntentsTotal.WithLabelValues(opcode, outcome).Inc()

	m.mu.Lock()
	m.snapshot.IntentsDispatched++
	if !ok {
		m.snapshot.IntentsFailed++
	}
	m.mu.Unlock()
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// IncWindowsTotal increments the total windows counter
func (m *Metrics) IncWindowsTotal() {
	m.WindowsTotal.Inc()
}

// IncFocus increments the focus counter
func (m *Metrics) IncFocus() {
	m.FocusTotal.Inc()
}

// IncDrags increments the completed drag counter
func (m *Metrics) IncDrags() {
	m.DragsTotal.Inc()
}

// RecordFrame records how long one tick took
func (m *Metrics) RecordFrame(duration time.Duration) {
	m.FrameDuration.Observe(duration.Seconds())
	m.frames.Add(duration)
}

// SetFrameTasks sets the number of registered frame tasks
func (m *Metrics) SetFrameTasks(count int) {
	m.FrameTasks.Set(float64(count))
}

// RecordPhysicsDefect counts a numeric defect by kind
func (m *Metrics) RecordPhysicsDefect(kind string) {
	m.PhysicsDefects.WithLabelValues(kind).Inc()
}

// IncFramesDropped counts a frame dropped for a slow subscriber
func (m *Metrics) IncFramesDropped() {
	m.FramesDropped.Inc()
}

// SetFrameSubscribers sets the number of frame subscribers
func (m *Metrics) SetFrameSubscribers(count int) {
	m.FrameSubscribers.Set(float64(count))
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns current metric values
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}

// FrameStats summarises recent frame durations
func (m *Metrics) FrameStats() FrameStats {
	return m.frames.Stats()
}

// UptimeDuration returns how long the collector has existed
func (m *Metrics) UptimeDuration() time.Duration {
	return time.Since(m.startTime)
}
