package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	lvl, err := parseLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, lvl)

	lvl, err = parseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, lvl)

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestTrimSource(t *testing.T) {
	assert.Equal(t, "internal/auth/store.go", trimSource("/home/ci/src/fitnesshub/web/internal/auth/store.go", "/web/"))
	assert.Equal(t, "golang.org/x/sync/errgroup.go", trimSource("/root/go/src/golang.org/x/sync/errgroup.go", "/web/"))
	assert.Equal(t, "store.go", trimSource("store.go", "/web/"))
}

func TestNewLogHandler_JSONAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, slog.LevelInfo, "/web/"))

	logger.Debug("hidden")
	logger.Warn("token store slow", "error", errors.New("timeout"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "token store slow", line["msg"])
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "timeout", line["error"])
}

func TestNewLogHandler_TintAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newLogHandler(&buf, slog.LevelDebug, "/web/"))

	logger.Debug("reconcile started", "sid", "abc")

	assert.Contains(t, buf.String(), "reconcile started")
	assert.Contains(t, buf.String(), "sid")
	assert.Contains(t, buf.String(), "abc")
	assert.NotContains(t, buf.String(), `"msg"`)
}
