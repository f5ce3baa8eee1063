package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(999), "UNKNOWN"},
	}

	for _, test := range tests {
		result := test.level.String()
		if result != test.expected {
			t.Errorf("LogLevel(%d).String() = %s, expected %s", test.level, result, test.expected)
		}
	}
}

func TestLogLevel_SlogLevel(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{LogLevel(999), slog.LevelInfo},
	}

	for _, test := range tests {
		result := test.level.SlogLevel()
		if result != test.expected {
			t.Errorf("LogLevel(%d).SlogLevel() = %v, expected %v", test.level, result, test.expected)
		}
	}
}

func TestInit_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf)

	Debug("test", "debug message should be suppressed")
	Info("test", "info message %d", 42)

	output := buf.String()
	if strings.Contains(output, "debug message") {
		t.Errorf("debug message leaked through info-level filter: %s", output)
	}
	if !strings.Contains(output, "info message 42") {
		t.Errorf("info message missing from output: %s", output)
	}
	if !strings.Contains(output, "subsystem=test") {
		t.Errorf("subsystem attribute missing from output: %s", output)
	}
}

func TestError_IncludesErrorAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelDebug, &buf)

	Error("validator", errors.New("boom"), "validation run failed")

	output := buf.String()
	if !strings.Contains(output, "error=boom") {
		t.Errorf("error attribute missing from output: %s", output)
	}
	if !strings.Contains(output, "validation run failed") {
		t.Errorf("message missing from output: %s", output)
	}
}
