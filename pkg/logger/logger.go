package logger

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ServiceName is attached to every entry
const ServiceName = "citizen-portal"

var (
	log  *zap.Logger
	once sync.Once
	atom zap.AtomicLevel

	buildLogger = func(cfg zap.Config) (*zap.Logger, error) {
		return cfg.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("service", ServiceName)))
	}
)

type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"

	// ginRequestIDKey is the plain string key gin.Context.Set uses
	ginRequestIDKey = "request_id"
)

// Init builds the process logger once. Production writes JSON with ISO8601 timestamps;
// development writes colored console output.
func Init(env string) {
	once.Do(func() {
		var config zap.Config
		if env == "development" {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			config = zap.NewProductionConfig()
			config.EncoderConfig.TimeKey = "timestamp"
			config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}

		built, err := buildLogger(config)
		if err != nil {
			panic(err)
		}
		log = built
		atom = config.Level
	})
}

// GetLogger returns the underlying zap logger
func GetLogger() *zap.Logger {
	return log
}

// SetLogger swaps the process logger and returns a func that restores the previous one
func SetLogger(l *zap.Logger) func() {
	prev := log
	log = l
	return func() { log = prev }
}

// SetLevel changes the minimum level at runtime
func SetLevel(level zapcore.Level) {
	atom.SetLevel(level)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		return id
	}
	if id, ok := ctx.Value(ginRequestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithContext returns the logger tagged with the request id carried by ctx. Before Init it
// returns a no-op logger.
func WithContext(ctx context.Context) *zap.Logger {
	base := log
	if base == nil {
		base = zap.NewNop()
	}
	if ctx == nil {
		return base
	}
	if id := requestID(ctx); id != "" {
		return base.With(zap.String("request_id", id))
	}
	return base
}

// Info logs a message at InfoLevel
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Info(msg, fields...)
}

// Error logs a message at ErrorLevel
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Error(msg, fields...)
}

// Debug logs a message at DebugLevel
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Debug(msg, fields...)
}

// Warn logs a message at WarnLevel
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	WithContext(ctx).Warn(msg, fields...)
}

// LogRequest writes one access log entry. Server errors log at error level and client errors
// at warn.
func LogRequest(ctx context.Context, method, path string, status int, latency time.Duration, clientIP string) {
	level := zapcore.InfoLevel
	switch {
	case status >= 500:
		level = zapcore.ErrorLevel
	case status >= 400:
		level = zapcore.WarnLevel
	}

	WithContext(ctx).Log(level, "HTTP Request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", status),
		zap.Duration("latency", latency),
		zap.String("client_ip", clientIP),
	)
}
