package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{" info ", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_Log(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelDebug,
		Output: &buf,
		Prefix: "test",
	})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	for _, want := range []string{"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]", "test: info message"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output:\n%s", want, output)
		}
	}
	if n := strings.Count(output, "\n"); n != 4 {
		t.Errorf("expected 4 lines, got %d", n)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{
		Level:  LogLevelWarn,
		Output: &buf,
	})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	output := buf.String()
	if strings.Contains(output, "[DEBUG]") || strings.Contains(output, "[INFO]") {
		t.Errorf("expected debug and info to be filtered out:\n%s", output)
	}
	if !strings.Contains(output, "[WARN]") || !strings.Contains(output, "[ERROR]") {
		t.Errorf("expected warn and error in output:\n%s", output)
	}
	if logger.Enabled(LogLevelInfo) {
		t.Error("Enabled(info) = true at warn level")
	}
	if !logger.Enabled(LogLevelError) {
		t.Error("Enabled(error) = false at warn level")
	}
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.Info("applied %s at %d", "insert", 42)

	if !strings.Contains(buf.String(), "applied insert at 42") {
		t.Errorf("expected formatted message, got: %s", buf.String())
	}
}

func TestLogger_FieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	logger.WithFields(map[string]any{
		"page":   "p1",
		"action": "insert",
	}).WithComponent("store").Info("dispatch")

	if !strings.Contains(buf.String(), "{action=insert, component=store, page=p1}") {
		t.Errorf("expected sorted fields, got: %s", buf.String())
	}
}

func TestLogger_WithFieldDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelInfo, Output: &buf})

	_ = logger.WithField("key", "value")
	logger.Info("plain")

	if strings.Contains(buf.String(), "key=value") {
		t.Errorf("parent logger picked up child field: %s", buf.String())
	}
}

func TestLogger_SetLevelAndOutput(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelError, Output: &buf1})

	logger.Info("should not appear")
	if buf1.Len() != 0 {
		t.Error("expected no output at error level")
	}

	logger.SetLevel(LogLevelInfo)
	if logger.Level() != LogLevelInfo {
		t.Errorf("Level() = %v, expected INFO", logger.Level())
	}
	logger.Info("to buf1")
	if buf1.Len() == 0 {
		t.Error("expected output after SetLevel")
	}

	logger.SetOutput(&buf2)
	logger.Info("to buf2")
	if buf2.Len() == 0 {
		t.Error("expected output to buf2")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Debug("test")
	NullLogger.Info("test")
	NullLogger.WithComponent("store").Warn("test")
	NullLogger.SetLevel(LogLevelDebug)
	if NullLogger.Enabled(LogLevelError) {
		t.Error("NullLogger reports enabled")
	}
}

func TestGetLogger(t *testing.T) {
	logger := GetLogger()
	if logger == nil {
		t.Fatal("GetLogger() returned nil")
	}
	if logger != GetLogger() {
		t.Error("expected GetLogger() to return same instance")
	}
}

func TestDefaultLoggerConfig(t *testing.T) {
	cfg := DefaultLoggerConfig()

	if cfg.Level != LogLevelInfo {
		t.Errorf("expected default level INFO, got %v", cfg.Level)
	}
	if cfg.Output == nil {
		t.Error("expected default output to be set")
	}
	if cfg.Prefix != "pagetree" {
		t.Errorf("expected prefix 'pagetree', got %q", cfg.Prefix)
	}
}
