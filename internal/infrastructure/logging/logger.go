package logging

import (
	"errors"
	"fmt"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is stamped on every entry
const Service = "spatialos"

// Logger wraps zap.Logger with the desktop's helpers
type Logger struct {
	*zap.Logger
}

// Config selects level, encoding and output
type Config struct {
	Level       string // debug, info, warn, error
	Development bool
	OutputPaths []string
	// SampleBurst caps identical production entries per second after the
	// first burst. Zero disables sampling.
	SampleBurst int
}

// DefaultConfig is JSON at info with sampling
func DefaultConfig() Config {
	return Config{
		Level:       "info",
		OutputPaths: []string{"stdout"},
		SampleBurst: 100,
	}
}

// DevelopmentConfig is coloured console output at debug, unsampled
func DevelopmentConfig() Config {
	return Config{
		Level:       "debug",
		Development: true,
		OutputPaths: []string{"stdout"},
	}
}

// New builds a logger from cfg
func New(cfg Config) (*Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.EncoderConfig.TimeKey = "timestamp"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.InitialFields = map[string]any{"service": Service}
	if len(cfg.OutputPaths) > 0 {
		zc.OutputPaths = cfg.OutputPaths
	}
	zc.Sampling = nil
	if !cfg.Development && cfg.SampleBurst > 0 {
		zc.Sampling = &zap.SamplingConfig{Initial: cfg.SampleBurst, Thereafter: cfg.SampleBurst}
	}

	logger, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDefault returns a production logger, or a no-op one if it can't be built
func NewDefault() *Logger {
	return orNop(New(DefaultConfig()))
}

// NewDevelopment returns a development logger, or a no-op one if it can't be built
func NewDevelopment() *Logger {
	return orNop(New(DevelopmentConfig()))
}

func orNop(l *Logger, err error) *Logger {
	if err != nil {
		return NewNop()
	}
	return l
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Component returns a child logger named after a subsystem
func (l *Logger) Component(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name)}
}

// With returns a child logger carrying fields on every entry
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Defect reports a broken invariant. DPanic panics in development builds
// and logs at error level in production.
func (l *Logger) Defect(msg string, err error, fields ...zap.Field) {
	l.DPanic(msg, append(fields, zap.Error(err))...)
}

// Sync flushes buffered entries. Terminals reject fsync with EINVAL or
// ENOTTY; those are not reported.
func (l *Logger) Sync() error {
	err := l.Logger.Sync()
	if errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return err
}
