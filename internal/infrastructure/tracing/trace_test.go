package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
)

func observed() (*logging.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logging.Logger{Logger: zap.New(core)}, logs
}

func TestStartSpanMintsTrace(t *testing.T) {
	tracer := New("test", logging.NewNop())
	defer tracer.Close()

	span, ctx := tracer.StartSpan(context.Background(), "op")
	assert.True(t, strings.HasPrefix(string(span.TraceID), "req_"))
	assert.NotEmpty(t, span.SpanID)
	assert.Empty(t, span.ParentID)
	assert.Equal(t, span.TraceID, GetTraceID(ctx))
	assert.Equal(t, span.SpanID, GetSpanID(ctx))
}

func TestStartSpanContinuesTrace(t *testing.T) {
	tracer := New("test", logging.NewNop())
	defer tracer.Close()

	parent, ctx := tracer.StartSpan(context.Background(), "parent")
	child, _ := tracer.StartSpan(ctx, "child")

	assert.Equal(t, parent.TraceID, child.TraceID)
	assert.Equal(t, parent.SpanID, child.ParentID)
	assert.NotEqual(t, parent.SpanID, child.SpanID)
}

func TestSetError(t *testing.T) {
	span := &Span{Tags: map[string]string{}}
	span.SetError(errors.New("boom"))
	assert.Equal(t, 500, span.StatusCode)

	span = &Span{Tags: map[string]string{}}
	span.SetStatus(404)
	span.SetError(errors.New("missing"))
	assert.Equal(t, 404, span.StatusCode)
}

func TestSubmitLogsSpan(t *testing.T) {
	logger, logs := observed()
	tracer := New("test", logger)
	defer tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "ws.command")
	span.SetTag("window_id", "win_1")
	span.Finish()
	tracer.Submit(span)

	require.Eventually(t, func() bool {
		return logs.FilterMessage("span completed").Len() == 1
	}, time.Second, 5*time.Millisecond)

	entry := logs.FilterMessage("span completed").All()[0]
	assert.Equal(t, "ws.command", entry.ContextMap()["operation"])
	assert.Equal(t, "win_1", entry.ContextMap()["window_id"])
}

func TestSubmitAfterCloseIsDropped(t *testing.T) {
	logger, logs := observed()
	tracer := New("test", logger)
	tracer.Close()
	tracer.Close()

	span, _ := tracer.StartSpan(context.Background(), "late")
	tracer.Submit(span)

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, logs.FilterMessage("span completed").Len())
}

func TestHTTPMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := New("test", logging.NewNop())
	defer tracer.Close()

	var seen TraceID
	router := gin.New()
	router.Use(HTTPMiddleware(tracer))
	router.GET("/windows", func(c *gin.Context) {
		seen = GetTraceID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("propagates inbound trace", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/windows", nil)
		req.Header.Set(HeaderTraceID, "req_inbound")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, TraceID("req_inbound"), seen)
		assert.Equal(t, "req_inbound", w.Header().Get(HeaderTraceID))
		assert.NotEmpty(t, w.Header().Get(HeaderSpanID))
	})

	t.Run("mints trace", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/windows", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, seen)
		assert.Equal(t, string(seen), w.Header().Get(HeaderTraceID))
	})
}
