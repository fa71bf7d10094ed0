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
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		SetLevel("INFO")
		SetFormat("text")
	})
	return &buf
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)
	SetLevel("warn")

	Debug("hidden %d", 1)
	Info("hidden %d", 2)
	Warn("shown %d", 3)
	Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown 3")
	assert.Contains(t, out, "[ERROR] shown 4")
	assert.False(t, IsDebug())
}

func TestDebugToggle(t *testing.T) {
	buf := capture(t)
	SetLevel("DEBUG")

	assert.True(t, IsDebug())
	Debug("open %q: local", "/etc/passwd")
	assert.Contains(t, buf.String(), `[DEBUG] open "/etc/passwd": local`)
}

func TestJSONFormat(t *testing.T) {
	buf := capture(t)
	SetFormat("json")

	Info("hello %s", "world")

	var line struct {
		Level   string `json:"level"`
		Message string `json:"msg"`
	}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "INFO", line.Level)
	assert.Equal(t, "hello world", line.Message)
}

func TestOpen(t *testing.T) {
	w, err := Open("stderr")
	require.NoError(t, err)
	assert.Equal(t, os.Stderr, w)

	path := filepath.Join(t.TempDir(), "log.txt")
	w, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, w.(*os.File).Close())

	_, err = Open(filepath.Join(t.TempDir(), "missing", "log.txt"))
	assert.Error(t, err)
}
