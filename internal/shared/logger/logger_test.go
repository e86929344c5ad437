package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"lunarbase-server/internal/shared/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelDebug,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(config.LoggingConfig{Level: "info", JSONFormat: true}, &buf).Info("placed", "object_id", 7)
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), `"object_id":7`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	l := New(config.LoggingConfig{Level: "warn"}, &buf)
	l.Info("suppressed")
	l.Warn("overlap", "count", 2)
	if strings.Contains(buf.String(), "suppressed") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "count=2") {
		t.Errorf("expected text output, got %q", buf.String())
	}
}
