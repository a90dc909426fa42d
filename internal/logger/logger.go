// Package logger builds the structured slog loggers used by the HRDesk
// service.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogFormat defines how log records are encoded
type LogFormat string

// Log format constants
const (
	TEXT LogFormat = "text"
	JSON LogFormat = "json"
)

// Config holds configuration options for the logger
type Config struct {
	Level       slog.Level
	Format      LogFormat
	Output      io.Writer
	DefaultTags map[string]interface{}
}

// DefaultConfig returns a default logger configuration. Output goes to
// stderr because stdout carries the MCP stdio transport.
func DefaultConfig() *Config {
	return &Config{
		Level:       slog.LevelInfo,
		Format:      TEXT,
		Output:      os.Stderr,
		DefaultTags: map[string]interface{}{"service": "hr-desk"},
	}
}

// New creates a new logger with the given configuration
func New(config *Config) *slog.Logger {
	if config == nil {
		config = DefaultConfig()
	}

	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: config.Level}

	var handler slog.Handler
	if config.Format == JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	l := slog.New(handler)
	for k, v := range config.DefaultTags {
		l = l.With(k, v)
	}
	return l
}

// FromSettings builds a logger from the string settings found in the
// configuration file.
func FromSettings(level, format string) *slog.Logger {
	cfg := DefaultConfig()
	cfg.Level = ParseLevel(level)
	cfg.Format = ParseFormat(format)
	return New(cfg)
}

// ParseLevel converts a string level to a slog.Level. Unknown values map to
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseFormat converts a string format to a LogFormat. Anything but "json"
// is text.
func ParseFormat(format string) LogFormat {
	if strings.EqualFold(strings.TrimSpace(format), string(JSON)) {
		return JSON
	}
	return TEXT
}

// GetLogger returns a logger with the given component name as a field
func GetLogger(base *slog.Logger, name string) *slog.Logger {
	if base == nil {
		base = slog.Default()
	}
	return base.With("component", name)
}
