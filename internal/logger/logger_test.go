package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FormatSelection(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		environment string
		wantJSON    bool
	}{
		{name: "explicit json", format: "json", wantJSON: true},
		{name: "explicit pretty", format: "pretty", wantJSON: false},
		{name: "production defaults to json", environment: "production", wantJSON: true},
		{name: "development defaults to pretty", environment: "development", wantJSON: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{
				Writer:      &buf,
				Format:      tt.format,
				Environment: tt.environment,
				Level:       slog.LevelInfo,
			})
			require.NotNil(t, logger)

			logger.Info("catalog loaded")

			output := buf.String()
			assert.Contains(t, output, "catalog loaded")
			if tt.wantJSON {
				assert.Contains(t, output, `"msg":"catalog loaded"`)
			} else {
				assert.Contains(t, output, "INF")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler)

	logger.Info("ranking complete", "user_id", "user-1", "results", 10)

	output := buf.String()
	assert.Contains(t, output, "ranking complete")
	assert.Contains(t, output, "user_id=user-1")
	assert.Contains(t, output, "results=10")
	assert.Contains(t, output, "INF")
}

func TestPrettyHandler_LevelIndicators(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := slog.New(handler)

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	output := buf.String()
	assert.Contains(t, output, "DBG")
	assert.Contains(t, output, "INF")
	assert.Contains(t, output, "WRN")
	assert.Contains(t, output, "ERR")
}

func TestPrettyHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	withAttrs := handler.WithAttrs([]slog.Attr{slog.String("component", "pipeline")})
	slog.New(withAttrs).Info("scored")

	assert.Contains(t, buf.String(), "component=pipeline")
	assert.Contains(t, buf.String(), "scored")
}

func TestPrettyHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, nil)

	assert.Equal(t, handler, handler.WithGroup(""))
	assert.NotEqual(t, handler, handler.WithGroup("request"))
}

func TestLogger_WithHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Format: "json", Level: slog.LevelInfo})

	logger.
		WithField("request_id", "req-abc").
		WithError(errors.New("index closed")).
		WithFields(map[string]any{"user_id": "user-9", "mode": "fallback"}).
		Error("ranking failed")

	output := buf.String()
	assert.Contains(t, output, "req-abc")
	assert.Contains(t, output, "index closed")
	assert.Contains(t, output, "user-9")
	assert.Contains(t, output, "fallback")
	assert.Contains(t, output, "ranking failed")
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Writer: &buf, Format: "json", Level: slog.LevelWarn})

	logger.Debug("debug line")
	logger.Info("info line")
	logger.Warn("warn line")

	output := buf.String()
	assert.NotContains(t, output, "debug line")
	assert.NotContains(t, output, "info line")
	assert.Contains(t, output, "warn line")
}
