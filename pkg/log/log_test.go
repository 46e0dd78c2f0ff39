package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_Formats(t *testing.T) {
	var buf bytes.Buffer

	New(&buf, "info", "json").Info("hello", "flow_id", "f1")
	assert.Contains(t, buf.String(), `"flow_id":"f1"`)

	buf.Reset()
	New(&buf, "info", "text").Info("hello", "flow_id", "f1")
	assert.Contains(t, buf.String(), "flow_id=f1")

	buf.Reset()
	New(&buf, "warn", "text").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer

	fallback := slog.Default()
	logger := New(&buf, "info", "text").With("run_id", "r1")

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	ctx := ContextWithLogger(context.Background(), logger)
	FromContext(ctx, fallback).Info("x")
	assert.Contains(t, buf.String(), "run_id=r1")
}
