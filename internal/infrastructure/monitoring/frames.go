package monitoring

import (
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// DefaultFrameWindow is roughly two seconds of frames at 60 Hz
const DefaultFrameWindow = 120

// FrameStats summarises tick durations in milliseconds
type FrameStats struct {
	Samples int     `json:"samples"`
	MeanMs  float64 `json:"mean_ms"`
	StdDev  float64 `json:"stddev_ms"`
	P95Ms   float64 `json:"p95_ms"`
	MaxMs   float64 `json:"max_ms"`
}

// FrameWindow is a fixed-size ring of recent frame durations
type FrameWindow struct {
	mu      sync.Mutex
	samples []float64
	next    int
	full    bool
}

// NewFrameWindow creates a ring holding size samples
func NewFrameWindow(size int) *FrameWindow {
	if size <= 0 {
		size = DefaultFrameWindow
	}
	return &FrameWindow{samples: make([]float64, size)}
}

// Add records one frame duration
func (w *FrameWindow) Add(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples[w.next] = float64(d) / float64(time.Millisecond)
	w.next = (w.next + 1) % len(w.samples)
	if w.next == 0 {
		w.full = true
	}
}

// Stats computes summary statistics over the window
func (w *FrameWindow) Stats() FrameStats {
	w.mu.Lock()
	n := w.next
	if w.full {
		n = len(w.samples)
	}
	data := make([]float64, n)
	copy(data, w.samples[:n])
	w.mu.Unlock()

	if n == 0 {
		return FrameStats{}
	}

	sort.Float64s(data)
	mean, std := stat.MeanStdDev(data, nil)
	if n == 1 {
		std = 0
	}
	return FrameStats{
		Samples: n,
		MeanMs:  mean,
		StdDev:  std,
		P95Ms:   stat.Quantile(0.95, stat.Empirical, data, nil),
		MaxMs:   data[n-1],
	}
}
