package http

import (
	"bytes"
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/kernel"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
)

type fixture struct {
	router  *gin.Engine
	runtime *desktop.Runtime
	metrics *monitoring.Metrics
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	k := kernel.New(types.Viewport{Width: 1000, Height: 800}).
		WithRand(rand.New(rand.NewPCG(1, 2))).
		WithMetrics(metrics)
	d := intent.NewDispatcher(k, intent.DefaultMargin).WithMetrics(metrics)
	cat := catalog.Builtin()
	desk := desktop.New(k, d, cat, desktop.WithMetrics(metrics))
	rt := desktop.NewRuntime(desk, 120)

	ctx, cancel := context.WithCancel(context.Background())
	go rt.Run(ctx)
	t.Cleanup(cancel)

	router := gin.New()
	router.Use(monitoring.Middleware(metrics))
	NewHandlers(rt, cat, metrics, nil).Register(router)
	router.GET("/metrics/json", NewMetricsAggregator(metrics, rt).GetAggregatedMetrics)

	return &fixture{router: router, runtime: rt, metrics: metrics}
}

func (f *fixture) do(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	var out map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func (f *fixture) open(t *testing.T, app string) types.Window {
	t.Helper()
	w, out := f.do(t, http.MethodPost, "/commands", `{"command":"open `+app+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, out["ok"])
	for _, win := range f.runtime.Snapshot().Windows {
		if string(win.AppID) == app {
			return win
		}
	}
	t.Fatalf("window for %s not open", app)
	return types.Window{}
}

func TestRootAndHealth(t *testing.T) {
	f := setup(t)

	w, out := f.do(t, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", out["status"])
	assert.Equal(t, Version, out["version"])

	w, out = f.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", out["status"])
	assert.Contains(t, out, "frames")
	assert.Contains(t, out, "kernel")
	assert.Equal(t, 120.0, out["frame_hz"])
}

func TestExecuteCommand(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantOK     bool
		feedback   string
	}{
		{"open", `{"command":"open the nil tracker"}`, http.StatusOK, true, "Intent executed: Process spawned."},
		{"switch", `{"command":"open nil"}`, http.StatusOK, true, "Switched to nil."},
		{"unknown", `{"command":"make coffee"}`, http.StatusOK, false, ""},
		{"empty", `{"command":""}`, http.StatusBadRequest, false, ""},
		{"malformed", `{"command":`, http.StatusBadRequest, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := f.do(t, http.MethodPost, "/commands", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Contains(t, out, "error")
				return
			}
			assert.Equal(t, tt.wantOK, out["ok"])
			if tt.feedback != "" {
				assert.Equal(t, tt.feedback, out["feedback"])
			}
			assert.Contains(t, out, "intent")
		})
	}

	assert.Len(t, f.runtime.Snapshot().Windows, 1)
}

func TestDispatchIntent(t *testing.T) {
	f := setup(t)

	w, out := f.do(t, http.MethodPost, "/intents", `{"opcode":"OPEN_APP","args":{"target":"board"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["ok"])
	assert.Equal(t, "OPEN_APP", out["opcode"])

	w, out = f.do(t, http.MethodPost, "/intents", `{"opcode":"SNAP_WINDOW","args":{"position":"maximize"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Window snapped maximize.", out["feedback"])

	win := f.runtime.Snapshot().Windows[0]
	assert.Equal(t, types.Rect{X: 24, Y: 24, Width: 952, Height: 752}, win.Rect())
	assert.True(t, win.IsMaximized)

	w, out = f.do(t, http.MethodPost, "/intents", `{"opcode":"DANCE"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, out["ok"])

	w, _ = f.do(t, http.MethodPost, "/intents", `{"args":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out = f.do(t, http.MethodPost, "/intents", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid JSON", out["error"])

	w, out = f.do(t, http.MethodPost, "/intents", `{"opcode":"OPEN_APP","args":{"target":"board"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid JSON", out["error"])

	w, _ = f.do(t, http.MethodPost, "/intents", `{"opcode":"OPEN_APP","raw":"`+strings.Repeat("x", utils.MaxJSONSize)+`"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestWindowLifecycle(t *testing.T) {
	f := setup(t)
	win := f.open(t, "sports")
	path := "/windows/" + string(win.ID)

	w, out := f.do(t, http.MethodGet, "/windows", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["windows"], 1)

	w, out = f.do(t, http.MethodPost, path+"/focus", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, out["success"])

	w, _ = f.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, f.runtime.Snapshot().Windows)

	w, out = f.do(t, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, out["error"], "unknown window")
}

func TestWindowIDValidation(t *testing.T) {
	f := setup(t)

	w, _ := f.do(t, http.MethodPost, "/windows/bad.id/focus", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(t, http.MethodPost, "/windows/win_missing/focus", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDragRejectsOutOfRangePointer(t *testing.T) {
	f := setup(t)
	win := f.open(t, "board")
	path := "/windows/" + string(win.ID) + "/drag/"

	w, _ := f.do(t, http.MethodPost, path+"begin", `{"x":100,"y":100}`)
	require.Equal(t, http.StatusOK, w.Code)

	for _, body := range []string{`{"x":1e308,"y":100}`, `{"x":100,"y":-2e6}`} {
		w, _ = f.do(t, http.MethodPost, path+"move", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	w, _ = f.do(t, http.MethodPost, path+"begin", `{"x":1e7,"y":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The loop is still alive and the window never moved
	w, out := f.do(t, http.MethodPost, path+"end", "")
	require.Equal(t, http.StatusOK, w.Code)
	target := out["target"].(map[string]any)
	assert.InDelta(t, win.TargetX, target["x"], 1e-9)
	assert.InDelta(t, win.TargetY, target["y"], 1e-9)
}

func TestDragRoundTrip(t *testing.T) {
	f := setup(t)
	win := f.open(t, "board")
	path := "/windows/" + string(win.ID) + "/drag/"

	w, _ := f.do(t, http.MethodPost, path+"begin", `{"x":100,"y":100}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = f.do(t, http.MethodPost, path+"move", `{"x":350,"y":280}`)
	require.Equal(t, http.StatusOK, w.Code)
	w, out := f.do(t, http.MethodPost, path+"end", "")
	require.Equal(t, http.StatusOK, w.Code)

	target := out["target"].(map[string]any)
	assert.InDelta(t, win.TargetX+250, target["x"], 1e-9)
	assert.InDelta(t, win.TargetY+180, target["y"], 1e-9)

	got := f.runtime.Snapshot().Windows[0]
	assert.InDelta(t, win.TargetX+250, got.TargetX, 1e-9)
	assert.InDelta(t, win.TargetY+180, got.TargetY, 1e-9)

	w, _ = f.do(t, http.MethodPost, path+"begin", `{"x":"left"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCardsAndNavigate(t *testing.T) {
	f := setup(t)
	win := f.open(t, "creator")
	base := "/windows/" + string(win.ID)

	w, out := f.do(t, http.MethodPost, base+"/cards", `{"total":4}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 4, out["total_cards"])

	w, _ = f.do(t, http.MethodPost, base+"/cards", `{"total":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantIndex  float64
	}{
		{"next", `{"direction":"next"}`, http.StatusOK, 1},
		{"jump past end clamps", `{"index":10}`, http.StatusOK, 3},
		{"next at end stays", `{"direction":"next"}`, http.StatusOK, 3},
		{"prev", `{"direction":"prev"}`, http.StatusOK, 2},
		{"jump below zero clamps", `{"index":-5}`, http.StatusOK, 0},
		{"bad direction", `{"direction":"sideways"}`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, out := f.do(t, http.MethodPost, base+"/navigate", tt.body)
			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantIndex, out["current_card_index"])
			}
		})
	}
}

func TestViewportAndCognitive(t *testing.T) {
	f := setup(t)

	w, _ := f.do(t, http.MethodPut, "/viewport", `{"width":1920,"height":1080}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.Viewport{Width: 1920, Height: 1080}, f.runtime.Snapshot().Viewport)

	w, _ = f.do(t, http.MethodPut, "/viewport", `{"width":0,"height":1080}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, out := f.do(t, http.MethodPut, "/cognitive", `{"confidence":2,"misconception":-1,"fog":0.5,"knowingness":0.25}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, out["confidence"])
	assert.Equal(t, 0.0, out["misconception"])

	w, out = f.do(t, http.MethodGet, "/cognitive", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.5, out["fog"])
}

func TestFrameAndApps(t *testing.T) {
	f := setup(t)
	f.open(t, "nil")

	w, out := f.do(t, http.MethodGet, "/frame", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, out, "windows")

	w, out = f.do(t, http.MethodGet, "/apps", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, out["apps"], catalog.Builtin().Len())
}

func TestStreamLogs(t *testing.T) {
	f := setup(t)

	w, out := f.do(t, http.MethodPost, "/logs", `{"source":"renderer","entries":[{"level":"warn","message":"slow frame","context":{"ms":40}}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, out["entries_received"])

	w, _ = f.do(t, http.MethodPost, "/logs", `{"source":"renderer","entries":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAggregatedMetrics(t *testing.T) {
	f := setup(t)
	f.open(t, "sports")
	f.do(t, http.MethodPost, "/commands", `{"command":"make coffee"}`)

	w, out := f.do(t, http.MethodGet, "/metrics/json", "")
	require.Equal(t, http.StatusOK, w.Code)

	backend := out["backend"].(map[string]any)
	assert.EqualValues(t, 2, backend["intents_dispatched"])
	assert.EqualValues(t, 1, backend["intents_failed"])

	summary := out["summary"].(map[string]any)
	assert.InDelta(t, 0.5, summary["intent_failure_rate"], 1e-9)
}

func TestStoppedRuntimeIsUnavailable(t *testing.T) {
	gin.SetMode(gin.TestMode)
	k := kernel.New(types.Viewport{Width: 800, Height: 600})
	desk := desktop.New(k, intent.NewDispatcher(k, intent.DefaultMargin), catalog.Builtin())
	rt := desktop.NewRuntime(desk, 60)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rt.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("runtime did not stop")
	}

	router := gin.New()
	NewHandlers(rt, catalog.Builtin(), nil, nil).Register(router)

	req := httptest.NewRequest(http.MethodPost, "/commands", bytes.NewReader([]byte(`{"command":"open nil"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStalledLoopTripsGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	k := kernel.New(types.Viewport{Width: 800, Height: 600})
	desk := desktop.New(k, intent.NewDispatcher(k, intent.DefaultMargin), catalog.Builtin())
	// never started, so every call waits out its deadline
	rt := desktop.NewRuntime(desk, 60)

	guard := resilience.New(resilience.Settings{Name: "test", Stalls: 2, Cooldown: time.Minute})
	router := gin.New()
	NewHandlers(rt, catalog.Builtin(), nil, nil).
		WithTimeout(10 * time.Millisecond).
		WithGuard(guard).
		Register(router)

	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/commands", bytes.NewReader([]byte(`{"command":"open nil"}`)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		w := post()
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
	require.Equal(t, resilience.StateOpen, guard.State())

	w := post()
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "circuit breaker is open")
}
