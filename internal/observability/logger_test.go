package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/fire-spread-service/internal/config"
)

func restoreDefaultLogger(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestNewLogger_Level(t *testing.T) {
	restoreDefaultLogger(t)
	ctx := context.Background()

	logger := NewLogger(&config.Config{LogLevel: "warn", LogFormat: "json"})
	assert.False(t, logger.Enabled(ctx, slog.LevelInfo))
	assert.True(t, logger.Enabled(ctx, slog.LevelWarn))
	assert.Same(t, logger, slog.Default())
}

func TestNewLoggerTo_JSON(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &config.Config{LogLevel: "warn", LogFormat: "json"})

	logger.Info("dropped")
	logger.Warn("geometry unavailable", "dataset", "Korean40x40")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "geometry unavailable", line["msg"])
	assert.Equal(t, "Korean40x40", line["dataset"])
}

func TestNewLoggerTo_Text(t *testing.T) {
	restoreDefaultLogger(t)
	var buf bytes.Buffer
	logger := newLoggerTo(&buf, &config.Config{LogLevel: "debug", LogFormat: "TEXT"})

	logger.Debug("parsed grid", "burned", 3)
	assert.Contains(t, buf.String(), "msg=\"parsed grid\" burned=3")
}

func TestEnabledLevel(t *testing.T) {
	for level, want := range map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	} {
		restoreDefaultLogger(t)
		assert.Equal(t, want, enabledLevel(NewLogger(&config.Config{LogLevel: level}).Handler()), level)
	}
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()

	m.ExtractRequests.WithLabelValues("ok").Inc()
	m.GeometryUnavailable.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractRequests.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GeometryUnavailable))
}
