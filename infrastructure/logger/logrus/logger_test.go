package logrus

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(Options{Level: "debug", Format: "json"}, &buf)

	logger.Info("Preview served", map[string]interface{}{
		"path": "marketplace",
		"url":  "https://shp.ee/abc",
	})

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Preview served", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "marketplace", entry["path"])
	assert.Equal(t, "https://shp.ee/abc", entry["url"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(Options{Level: "warn", Format: "text"}, &buf)

	logger.Debug("hidden debug", nil)
	logger.Info("hidden info", nil)
	logger.Warn("visible warn", nil)
	logger.Error("visible error", map[string]interface{}{"code": 500})

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible warn")
	assert.Contains(t, out, "visible error")
	assert.Contains(t, out, "code=500")
}

func TestLogger_InvalidLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := newWithOutput(Options{Level: "chatty"}, &buf)

	logger.Debug("debug line", nil)
	logger.Info("info line", nil)

	assert.NotContains(t, buf.String(), "debug line")
	assert.Contains(t, buf.String(), "info line")
}

func TestLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	logger := newWithOutput(Options{Level: "info", File: path}, &buf)

	logger.Info("written to both", nil)
	require.NoError(t, logger.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to both"))
	assert.Contains(t, buf.String(), "written to both")
}

func TestLogger_CloseWithoutFile(t *testing.T) {
	logger := New(Options{})
	assert.NoError(t, logger.Close())
}
