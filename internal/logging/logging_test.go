package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/calcquiz/internal/config"
)

func TestNewWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "calcquiz.log")
	log, err := New(config.LogConfig{Level: "info", File: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	log.Info("session started", zap.String("chapter", "limits"))
	log.Debug("dropped below level")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "session started", entry["msg"])
	assert.Equal(t, "limits", entry["chapter"])
}

func TestNewConsoleOnly(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(config.LogConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	log.Debug("problem skipped", zap.Int("index", 3))
	assert.Contains(t, buf.String(), "problem skipped")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNewNoSinks(t *testing.T) {
	log, err := New(config.LogConfig{Level: "info"}, nil)
	require.NoError(t, err)
	assert.NotNil(t, log)
	log.Info("goes nowhere")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "shouty"}, nil)
	assert.Error(t, err)
}
