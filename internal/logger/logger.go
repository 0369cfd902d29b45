// Package logger provides structured, leveled logging and in-process timing
// metrics for parkrun-stats.
//
// Logging is backed by zap. Output is JSON by default, or colored console lines
// in development mode, and always goes to a caller-supplied writer (stderr in the
// CLI) so that stdout carries only the report.
//
// Example usage:
//
//	logger.Info("Page fetched", logger.Fields{
//	    "url":   url,
//	    "bytes": len(html),
//	})
//
//	logger.Error("Extraction failed", logger.Fields{"source": path}, err)
//
//	logger.RecordTiming("extract", time.Since(start))
package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// ParseLevel accepts a level name in any case.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo, "":
		return LevelInfo, nil
	case LevelWarn, "WARNING":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return "", fmt.Errorf("unknown log level %q", s)
}

func (l Level) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger provides structured logging
type Logger struct {
	z *zap.Logger
}

// Fields represents structured log fields
type Fields map[string]interface{}

var (
	defaultMu     sync.RWMutex
	defaultLogger = New(LevelInfo, os.Stderr)
)

// New creates a JSON logger writing to output. Messages below level are discarded.
func New(level Level, output io.Writer) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(output), level.zapLevel())
	return &Logger{z: zap.New(core)}
}

// NewDevelopment creates a human-readable console logger with colored levels.
func NewDevelopment(level Level, output io.Writer) *Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), zapcore.AddSync(output), level.zapLevel())
	return &Logger{z: zap.New(core)}
}

// Zap exposes the underlying zap logger.
func (l *Logger) Zap() *zap.Logger {
	return l.z
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

// SetDefault sets the package-level logger used by the convenience functions
// (Debug, Info, Warn, Error).
func SetDefault(logger *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// Default returns the package-level logger.
func Default() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// toZap converts fields to zap fields in key order so output is stable.
func toZap(fields Fields, err error) []zap.Field {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	if err != nil {
		out = append(out, zap.Error(err))
	}
	return out
}

// Debug logs detailed diagnostic information.
func (l *Logger) Debug(message string, fields Fields) {
	l.z.Debug(message, toZap(fields, nil)...)
}

// Info logs general operational information.
func (l *Logger) Info(message string, fields Fields) {
	l.z.Info(message, toZap(fields, nil)...)
}

// Warn logs a potential issue that doesn't prevent operation.
func (l *Logger) Warn(message string, fields Fields) {
	l.z.Warn(message, toZap(fields, nil)...)
}

// Error logs a failure together with the error that caused it.
func (l *Logger) Error(message string, fields Fields, err error) {
	l.z.Error(message, toZap(fields, err)...)
}

// Package-level convenience functions using default logger

// Debug logs a debug message with the default logger
func Debug(message string, fields Fields) {
	Default().Debug(message, fields)
}

// Info logs an info message with the default logger
func Info(message string, fields Fields) {
	Default().Info(message, fields)
}

// Warn logs a warning message with the default logger
func Warn(message string, fields Fields) {
	Default().Warn(message, fields)
}

// Error logs an error message with the default logger
func Error(message string, fields Fields, err error) {
	Default().Error(message, fields, err)
}

// Metrics tracks counters and timings of one run. All operations are thread-safe.
type Metrics struct {
	mu       sync.Mutex
	counters map[string]int64
	timings  map[string][]time.Duration
}

var defaultMetrics = NewMetrics()

// NewMetrics creates an empty metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		counters: make(map[string]int64),
		timings:  make(map[string][]time.Duration),
	}
}

// IncrCounter increments a counter by 1.
func (m *Metrics) IncrCounter(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counters[name]++
}

// RecordTiming records a duration measurement.
func (m *Metrics) RecordTiming(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timings[name] = append(m.timings[name], duration)
}

// GetSnapshot returns a deep copy of all metrics as log fields: every counter
// under its own name, and per timing "<name>.count" and "<name>.total".
func (m *Metrics) GetSnapshot() Fields {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make(Fields, len(m.counters)+2*len(m.timings))
	for k, v := range m.counters {
		snapshot[k] = v
	}
	for name, durations := range m.timings {
		var total time.Duration
		for _, d := range durations {
			total += d
		}
		snapshot[name+".count"] = len(durations)
		snapshot[name+".total"] = total.String()
	}
	return snapshot
}

// IncrCounter increments a counter on the default metrics tracker.
func IncrCounter(name string) {
	defaultMetrics.IncrCounter(name)
}

// RecordTiming records a timing on the default metrics tracker.
func RecordTiming(name string, duration time.Duration) {
	defaultMetrics.RecordTiming(name, duration)
}

// GetMetricsSnapshot returns a snapshot of all metrics from the default tracker.
func GetMetricsSnapshot() Fields {
	return defaultMetrics.GetSnapshot()
}
