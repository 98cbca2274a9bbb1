package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "0.3.0"

// DefaultCallTimeout bounds how long a request waits for the desktop loop
const DefaultCallTimeout = 2 * time.Second

// Handlers contains all HTTP handlers
type Handlers struct {
	runtime   *desktop.Runtime
	catalog   *catalog.Catalog
	metrics   *monitoring.Metrics
	logger    *logging.Logger
	validator *utils.JSONSizeValidator
	guard     *resilience.Guard
	timeout   time.Duration
}

// NewHandlers creates a new handler set
func NewHandlers(
	runtime *desktop.Runtime,
	cat *catalog.Catalog,
	metrics *monitoring.Metrics,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		runtime:   runtime,
		catalog:   cat,
		metrics:   metrics,
		logger:    logger.Component("http"),
		validator: utils.DefaultJSONValidator(),
		timeout:   DefaultCallTimeout,
	}
}

// WithTimeout sets how long handlers wait on the desktop loop
func (h *Handlers) WithTimeout(d time.Duration) *Handlers {
	h.timeout = d
	return h
}

// WithGuard routes desktop loop calls through a stall guard
func (h *Handlers) WithGuard(g *resilience.Guard) *Handlers {
	h.guard = g
	return h
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "SpatialOS Desktop (Go)",
		"version": Version,
	})
}

// Health handles the detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":    "healthy",
		"kernel":    h.runtime.Stats(),
		"cognitive": h.runtime.Cognitive(),
		"frame_hz":  h.runtime.FrameRate(),
	}
	if h.metrics != nil {
		resp["frames"] = h.metrics.FrameStats()
		resp["uptime_seconds"] = h.metrics.UptimeDuration().Seconds()
	}
	c.JSON(http.StatusOK, resp)
}

// ListWindows returns the kernel snapshot
func (h *Handlers) ListWindows(c *gin.Context) {
	c.JSON(http.StatusOK, h.runtime.Snapshot())
}

// Frame renders the desktop as of now
func (h *Handlers) Frame(c *gin.Context) {
	ctx, cancel := h.callContext(c)
	defer cancel()

	frame, err := guardedCall(h, func() (desktop.RenderFrame, error) {
		return h.runtime.Frame(ctx)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, frame)
}

// ListApps lists the application catalog
func (h *Handlers) ListApps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"apps":    h.catalog.Apps(),
		"default": h.catalog.Default(),
	})
}

// DispatchIntent applies a structured intent in its wire form
func (h *Handlers) DispatchIntent(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}
	if err := h.validator.ValidateSize(body); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return
	}
	if err := h.validator.ValidateJSON(body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in, err := intent.Decode(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := guardedCall(h, func() (intent.Result, error) {
		return h.runtime.DispatchIntent(ctx, in)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExecuteCommand parses and dispatches a free-text command
func (h *Handlers) ExecuteCommand(c *gin.Context) {
	var req types.CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if err := utils.ValidateCommand(req.Command); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	res, err := guardedCall(h, func() (desktop.ExecuteResult, error) {
		return h.runtime.Execute(ctx, req.Command)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Debug("Command dispatched",
		tracing.Field(c.Request.Context()),
		zap.String("opcode", string(res.Opcode)),
		zap.Bool("ok", res.OK),
	)
	c.JSON(http.StatusOK, res)
}

// SetViewport resizes the desktop container
func (h *Handlers) SetViewport(c *gin.Context) {
	var req types.ViewportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	vp := types.Viewport{Width: req.Width, Height: req.Height}
	if err := h.guarded(func() error { return h.runtime.SetViewport(ctx, vp) }); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, vp)
}

// GetCognitive returns the cognitive state
func (h *Handlers) GetCognitive(c *gin.Context) {
	c.JSON(http.StatusOK, h.runtime.Cognitive())
}

// SetCognitive replaces the cognitive state. Components are clamped to [0,1].
func (h *Handlers) SetCognitive(c *gin.Context) {
	var req types.CognitiveState
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx, cancel := h.callContext(c)
	defer cancel()

	state, err := guardedCall(h, func() (types.CognitiveState, error) {
		return h.runtime.SetCognitive(ctx, req)
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handlers) callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), h.timeout)
}

func (h *Handlers) guarded(fn func() error) error {
	if h.guard == nil {
		return fn()
	}
	return h.guard.Do(fn)
}

func guardedCall[T any](h *Handlers, fn func() (T, error)) (T, error) {
	if h.guard == nil {
		return fn()
	}
	return resilience.Call(h.guard, fn)
}

// fail maps desktop errors onto status codes
func (h *Handlers) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, desktop.ErrUnknownWindow):
		status = http.StatusNotFound
	case errors.Is(err, desktop.ErrInvalidPointer):
		status = http.StatusBadRequest
	case errors.Is(err, desktop.ErrStopped),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		resilience.IsRejected(err):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("Request failed", tracing.Field(c.Request.Context()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
