package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	api "github.com/GriffinCanCode/SpatialOS/backend/internal/api/http"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/api/middleware"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/api/ws"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/kernel"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
)

// ShutdownTimeout bounds how long in-flight requests may take to drain
const ShutdownTimeout = 10 * time.Second

// StreamPath is where renderers open the frame stream
const StreamPath = "/stream"

// Server wraps the HTTP server and dependencies
type Server struct {
	handler  http.Handler
	desktop  *desktop.Desktop
	runtime  *desktop.Runtime
	tracer   *tracing.Tracer
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	registry *prometheus.Registry
}

// NewServer creates a new server instance. A catalog that fails to load is
// an error; everything else falls back to defaults.
func NewServer(cfg *config.Config) (*Server, error) {
	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logCfg.Level = cfg.Logging.Level
	logger, err := logging.New(logCfg)
	if err != nil {
		logger = logging.NewDefault()
		logger.Warn("Invalid log level, using defaults", zap.String("level", cfg.Logging.Level))
	}
	return NewServerWithLogger(cfg, logger)
}

// NewServerWithLogger creates a server that logs through logger
func NewServerWithLogger(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	logger.Info("Initializing SpatialOS desktop server",
		zap.String("port", cfg.Server.Port),
		zap.Float64("viewport_width", cfg.Desktop.ViewportWidth),
		zap.Float64("viewport_height", cfg.Desktop.ViewportHeight),
		zap.Int("frame_rate", cfg.Desktop.FrameRate),
	)

	// Each server owns its registry so /metrics exposes exactly this process
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetricsWith(registry)
	logger.Info("Performance monitoring initialized")

	tracer := tracing.New("desktop", logger)

	cat, err := catalog.LoadOrBuiltin(cfg.Desktop.CatalogPath)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Info("Application catalog loaded",
		zap.Int("apps", cat.Len()),
		zap.String("default", string(cat.Default().ID)),
		zap.String("path", cfg.Desktop.CatalogPath),
	)

	viewport := types.Viewport{Width: cfg.Desktop.ViewportWidth, Height: cfg.Desktop.ViewportHeight}
	k := kernel.New(viewport).
		WithLogger(logger.Component("kernel")).
		WithMetrics(metrics)
	dispatcher := intent.NewDispatcher(k, cfg.Desktop.SnapMargin).
		WithLogger(logger.Component("intent")).
		WithMetrics(metrics)
	desk := desktop.New(k, dispatcher, cat,
		desktop.WithLogger(logger.Component("desktop")),
		desktop.WithMetrics(metrics),
	)
	if cfg.Desktop.Boot {
		desk.Boot()
	}
	runtime := desktop.NewRuntime(desk, cfg.Desktop.FrameRate)

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		limits := middleware.DefaultRateLimitConfig()
		limits.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		limits.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(limits))
	}

	// Create handlers
	guardSettings := resilience.DefaultSettings()
	guardSettings.OnStateChange = func(name string, from, to resilience.State) {
		logger.Warn("Desktop loop guard changed state",
			zap.String("guard", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	}
	handlers := api.NewHandlers(runtime, cat, metrics, logger).
		WithGuard(resilience.New(guardSettings))
	handlers.Register(router)
	wsHandler := ws.NewHandler(runtime, logger).WithMetrics(metrics).WithTracer(tracer)
	router.GET(StreamPath, wsHandler.HandleConnection)

	// Metrics endpoints
	aggregator := api.NewMetricsAggregator(metrics, runtime)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/metrics/json", aggregator.GetAggregatedMetrics)

	logger.Info("Server initialized successfully")

	return &Server{
		handler:  compress(router, cfg.Compression.Gzip),
		desktop:  desk,
		runtime:  runtime,
		tracer:   tracer,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: registry,
	}, nil
}

// compress gzips REST responses. The stream bypasses the wrapper since the
// upgrade hijacks the connection.
func compress(router http.Handler, enabled bool) http.Handler {
	if !enabled {
		return router
	}
	gz := gzhttp.GzipHandler(router)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == StreamPath {
			router.ServeHTTP(w, r)
			return
		}
		gz.ServeHTTP(w, r)
	})
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Runtime returns the desktop runtime
func (s *Server) Runtime() *desktop.Runtime {
	return s.runtime
}

// Run serves HTTP and drives the desktop until ctx is cancelled, then
// drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.config.Server.Host, s.config.Server.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	loopErr := make(chan error, 1)
	go func() { loopErr <- s.runtime.Run(loopCtx) }()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		serveErr <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
	case err := <-loopErr:
		_ = srv.Close()
		return fmt.Errorf("desktop loop: %w", err)
	}

	s.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	// Stopping the loop first closes every frame stream
	stopLoop()
	<-loopErr
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close releases background resources
func (s *Server) Close() error {
	s.tracer.Close()
	// Sync logger before exit
	_ = s.logger.Sync()
	return nil
}
