package logger

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger(t *testing.T) {
	// Create a buffer to capture log output
	var buf bytes.Buffer

	// Create a logger with custom configuration
	config := &Config{
		Level:       slog.LevelDebug,
		Format:      TEXT,
		Output:      &buf,
		DefaultTags: map[string]interface{}{"test": true},
	}
	logger := New(config)

	logger.Debug("This is a debug message")
	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "This is a debug message") {
		t.Errorf("Expected debug message in log output, got: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "test=true") {
		t.Errorf("Expected default tag in log output, got: %s", buf.String())
	}

	// Test with component
	buf.Reset()
	GetLogger(logger, "ledger").Warn("This is a warning", "leave_id", "L001")
	if !strings.Contains(buf.String(), "level=WARN") ||
		!strings.Contains(buf.String(), "component=ledger") ||
		!strings.Contains(buf.String(), "leave_id=L001") {
		t.Errorf("Expected warning with component in log output, got: %s", buf.String())
	}

	// Test JSON format
	buf.Reset()
	jsonLogger := New(&Config{
		Level:  slog.LevelInfo,
		Format: JSON,
		Output: &buf,
	})

	jsonLogger.Info("JSON message")
	if !strings.Contains(buf.String(), "\"level\":\"INFO\"") ||
		!strings.Contains(buf.String(), "\"msg\":\"JSON message\"") {
		t.Errorf("Expected JSON formatted log, got: %s", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	var buf bytes.Buffer

	// Create a logger with INFO level
	logger := New(&Config{
		Level:  slog.LevelInfo,
		Format: TEXT,
		Output: &buf,
	})

	// DEBUG should not be logged when level is INFO
	logger.Debug("Should not appear")
	if buf.Len() > 0 {
		t.Errorf("DEBUG message should not have been logged, got: %s", buf.String())
	}

	// INFO should be logged
	buf.Reset()
	logger.Info("Should appear")
	if buf.Len() == 0 {
		t.Errorf("INFO message should have been logged")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != JSON {
		t.Error("Expected JSON format")
	}
	if ParseFormat("text") != TEXT || ParseFormat("") != TEXT || ParseFormat("yaml") != TEXT {
		t.Error("Expected text format for everything else")
	}
}

func ExampleGetLogger() {
	// This example shows how to use component loggers
	var buf bytes.Buffer
	logger := New(&Config{
		Level:  slog.LevelDebug,
		Format: TEXT,
		Output: &buf,
	})

	// Create a component logger
	componentLogger := GetLogger(logger, "calendar")

	// Log with the component field
	componentLogger.Info("Meeting scheduled")

	fmt.Println("Contains component:", strings.Contains(buf.String(), "component=calendar"))
	// Output: Contains component: true
}
