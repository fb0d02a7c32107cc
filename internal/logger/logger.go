package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
	})
	return &Logger{Logger: l}
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel converts a level name such as "debug" or "warn" to a log.Level
func ParseLevel(name string) (log.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel, nil
	case "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("unknown log level '%s'", name)
	}
}

// ConversionStarted logs the start of a conversion
func (l *Logger) ConversionStarted(id, input, output string) {
	l.Debug("conversion started",
		"id", id,
		"input", input,
		"output", output)
}

// ConversionSkipped logs a conversion that was not performed
func (l *Logger) ConversionSkipped(id, reason string) {
	l.Info("conversion skipped",
		"id", id,
		"reason", reason)
}

// ConversionCompleted logs a successful conversion
func (l *Logger) ConversionCompleted(id, from, to string, rows int, duration time.Duration) {
	l.Info("conversion completed",
		"id", id,
		"from", from,
		"to", to,
		"rows", rows,
		"duration", duration.Round(time.Millisecond))
}

// ConversionFailed logs a conversion error
func (l *Logger) ConversionFailed(id, input, output string, err error) {
	l.Error("conversion failed",
		"id", id,
		"input", input,
		"output", output,
		"error", err)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, strictExit, legacyTSV bool) {
	l.Debug("config loaded",
		"path", path,
		"strict_exit", strictExit,
		"legacy_tsv", legacyTSV)
}
