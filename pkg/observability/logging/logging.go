// Package logging provides the shared leveled logger for the router.
// All packages log through the package-level helpers so the backend can be
// swapped or reconfigured in one place.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = newDefaultLogger().Sugar()
)

func newDefaultLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap's production config cannot fail to build with these options,
		// but fall back to a no-op logger rather than panic at import time.
		return zap.NewNop()
	}
	return logger
}

// InitLoggerFromEnv (re)initializes the global logger from environment
// variables. LOG_LEVEL selects the level (debug, info, warn, error; default
// info) and LOG_FORMAT selects the encoding (json or console; default
// console). It returns the underlying zap logger so callers can defer Sync.
func InitLoggerFromEnv() (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(raw))); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
		}
	}

	encoding := "console"
	if raw := strings.ToLower(os.Getenv("LOG_FORMAT")); raw == "json" {
		encoding = "json"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = encoding
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	mu.Lock()
	sugar = logger.Sugar()
	mu.Unlock()

	return logger, nil
}

// SetLogger replaces the global logger. Intended for tests.
func SetLogger(logger *zap.Logger) {
	mu.Lock()
	sugar = logger.Sugar()
	mu.Unlock()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	get().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	get().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	get().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	get().Errorf(format, args...)
}

// Fatalf logs a formatted message at fatal level and exits.
func Fatalf(format string, args ...interface{}) {
	get().Fatalf(format, args...)
}

// Sync flushes any buffered log entries.
func Sync() error {
	return get().Sync()
}
