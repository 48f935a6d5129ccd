package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields holds structured logging context
type Fields map[string]any

// Logger is the logging interface used throughout the engine
type Logger interface {
	Debug(msg string, fields ...Fields)
	Info(msg string, fields ...Fields)
	Warn(msg string, fields ...Fields)
	Error(msg string, fields ...Fields)
	WithFields(fields Fields) Logger
}

type zapLogger struct {
	base *zap.Logger
}

var defaultLogger = newZapLogger(zapcore.InfoLevel)

func newZapLogger(level zapcore.Level) *zapLogger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		logger = zap.NewNop()
	}

	return &zapLogger{base: logger}
}

// NewDefaultLogger returns the process-wide default logger
func NewDefaultLogger() Logger {
	return defaultLogger
}

// SetLevel reconfigures the default logger's minimum level
func SetLevel(level string) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		parsed = zapcore.InfoLevel
	}
	defaultLogger = newZapLogger(parsed)
}

// WithFields returns a logger carrying the given context fields
func WithFields(fields Fields) Logger {
	return defaultLogger.WithFields(fields)
}

func (l *zapLogger) WithFields(fields Fields) Logger {
	return &zapLogger{base: l.base.With(toZapFields(fields)...)}
}

func (l *zapLogger) Debug(msg string, fields ...Fields) {
	l.base.Debug(msg, mergeFields(fields)...)
}

func (l *zapLogger) Info(msg string, fields ...Fields) {
	l.base.Info(msg, mergeFields(fields)...)
}

func (l *zapLogger) Warn(msg string, fields ...Fields) {
	l.base.Warn(msg, mergeFields(fields)...)
}

func (l *zapLogger) Error(msg string, fields ...Fields) {
	l.base.Error(msg, mergeFields(fields)...)
}

func toZapFields(fields Fields) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

func mergeFields(fields []Fields) []zap.Field {
	var out []zap.Field
	for _, f := range fields {
		out = append(out, toZapFields(f)...)
	}
	return out
}
