package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestSlogAdapter_LevelRouting(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(slog.New(handler))

	tests := []struct {
		name  string
		log   func(msg string, args ...interface{})
		level string
	}{
		{"debug", adapter.Debug, "DEBUG"},
		{"info", adapter.Info, "INFO"},
		{"warn", adapter.Warn, "WARN"},
		{"error", adapter.Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("rate limit exceeded", "client", "abc123")

			out := buf.String()
			if !strings.Contains(out, "level="+tt.level) {
				t.Errorf("output %q missing level %s", out, tt.level)
			}
			if !strings.Contains(out, "rate limit exceeded") {
				t.Errorf("output %q missing message", out)
			}
			if !strings.Contains(out, "client=abc123") {
				t.Errorf("output %q missing attribute", out)
			}
		})
	}
}

func TestNewSlogAdapter_NilFallsBackToDefault(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Logger() == nil {
		t.Fatal("nil input should fall back to slog.Default()")
	}
}

func TestSlogAdapter_LoggerReturnsUnderlying(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	adapter := NewSlogAdapter(logger)
	if adapter.Logger() != logger {
		t.Error("Logger() should return the wrapped slog.Logger")
	}
}

func TestDefaultLogger_ImplementsLogger(t *testing.T) {
	var l Logger = DefaultLogger()
	if l == nil {
		t.Fatal("DefaultLogger returned nil")
	}
}
