package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/docchat/internal/config"
)

func TestBuild_ConsoleRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := build(config.LogConfig{Level: config.LogWarn}, &buf)
	require.NoError(t, err)

	log.Info("hidden")
	log.Warn("shown")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestBuild_JSONConsole(t *testing.T) {
	var buf bytes.Buffer
	log, err := build(config.LogConfig{Level: config.LogInfo, JSON: true}, &buf)
	require.NoError(t, err)

	log.Named("chat").Info("upload finished")
	require.NoError(t, log.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "upload finished", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "chat", entry["logger"])
}

func TestBuild_FileCore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docchat.log")
	var buf bytes.Buffer
	log, err := build(config.LogConfig{Level: config.LogDebug, File: path}, &buf)
	require.NoError(t, err)

	log.Debug("to both")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestBuild_UnknownLevel(t *testing.T) {
	_, err := build(config.LogConfig{Level: "chatty"}, &bytes.Buffer{})
	assert.Error(t, err)
}
