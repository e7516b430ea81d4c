package logger

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/narwhalmedia/reelscout/pkg/interfaces"
)

// ZapLogger wraps zap logger to implement the Logger interface.
type ZapLogger struct {
	logger *zap.Logger
}

// New creates a logger from ENVIRONMENT and LOG_LEVEL. It is the fallback used
// before configuration has been loaded.
func New() interfaces.Logger {
	env := os.Getenv("ENVIRONMENT")
	cfg := DefaultConfig()
	if env == "" || env == "development" || env == "dev" {
		cfg = DevelopmentConfig()
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Level = level
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}

// NewZapLogger wraps an existing zap logger.
func NewZapLogger(l *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: l}
}

// Debug logs a debug message.
func (l *ZapLogger) Debug(msg string, fields ...interfaces.Field) {
	l.logger.Debug(msg, convertFields(fields)...)
}

// Info logs an info message.
func (l *ZapLogger) Info(msg string, fields ...interfaces.Field) {
	l.logger.Info(msg, convertFields(fields)...)
}

// Warn logs a warning message.
func (l *ZapLogger) Warn(msg string, fields ...interfaces.Field) {
	l.logger.Warn(msg, convertFields(fields)...)
}

// Error logs an error message.
func (l *ZapLogger) Error(msg string, fields ...interfaces.Field) {
	l.logger.Error(msg, convertFields(fields)...)
}

// Fatal logs a fatal message and exits.
func (l *ZapLogger) Fatal(msg string, fields ...interfaces.Field) {
	l.logger.Fatal(msg, convertFields(fields)...)
}

// WithContext attaches the request id stored by the HTTP middleware, if any.
func (l *ZapLogger) WithContext(ctx context.Context) interfaces.Logger {
	if id := RequestIDFromContext(ctx); id != "" {
		return l.WithFields(interfaces.String("request_id", id))
	}
	return l
}

// WithFields returns a logger with additional fields.
func (l *ZapLogger) WithFields(fields ...interfaces.Field) interfaces.Logger {
	return &ZapLogger{logger: l.logger.With(convertFields(fields)...)}
}

// Named returns a child logger with the given name segment.
func (l *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{logger: l.logger.Named(name)}
}

// Zap exposes the underlying zap logger for libraries that take one directly.
func (l *ZapLogger) Zap() *zap.Logger {
	return l.logger
}

// Sync flushes any buffered log entries.
func (l *ZapLogger) Sync() error {
	return l.logger.Sync()
}

func convertFields(fields []interfaces.Field) []zap.Field {
	zapFields := make([]zap.Field, len(fields))
	for i, field := range fields {
		if err, ok := field.Value.(error); ok && field.Key == "error" {
			zapFields[i] = zap.Error(err)
			continue
		}
		zapFields[i] = zap.Any(field.Key, field.Value)
	}
	return zapFields
}
