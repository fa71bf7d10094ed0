package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viraptor/libremotec/internal/protocol/call"
	"github.com/viraptor/libremotec/internal/protocol/wire"
	"github.com/viraptor/libremotec/pkg/config"
	"github.com/viraptor/libremotec/pkg/stat"
)

func TestConfigInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "init", "--path", path})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, out.String(), path)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestConfigSchemaWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.schema.json")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"config", "schema", path})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"cwd_policy"`)
}

func TestPrintStat(t *testing.T) {
	var out bytes.Buffer
	printStat(&out, "/remote/a", &stat.Stat{Size: 42, Ino: 7, Mode: 0o100644, Nlink: 1})

	assert.Contains(t, out.String(), "File: /remote/a")
	assert.Contains(t, out.String(), "Size: 42")
	assert.Contains(t, out.String(), "Access: 0644")
}

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

func TestRunServeMetricsFollowSession(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Transport.Type = "unix"
	cfg.Transport.Unix = map[string]any{"path": filepath.Join(t.TempDir(), "serve.sock")}
	cfg.Server.Metrics.Enabled = true
	cfg.Server.Metrics.Port = freePort(t)

	ep, err := config.Endpoint(cfg)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- runServe(context.Background(), cfg) }()

	var conn *wire.Conn
	require.Eventually(t, func() bool {
		c, err := wire.Dial(ep)
		if err != nil {
			return false
		}
		conn = c
		return true
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, call.WriteCall(conn, call.OpLstat, call.String("/")))
	c := &call.Call{Op: call.OpLstat, Args: []call.Arg{call.String("/")}}
	reply, err := call.ReadReply(conn, c)
	require.NoError(t, err)
	assert.False(t, reply.Failed())

	index := "http://127.0.0.1:" + strconv.Itoa(cfg.Server.Metrics.Port) + "/"
	resp, err := http.Get(index)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.Contains(t, string(body), "session: connected")

	require.NoError(t, conn.Close())
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("runServe did not return after the client left")
	}

	_, err = http.Get(index)
	assert.Error(t, err, "metrics endpoint closes with the session")
}
