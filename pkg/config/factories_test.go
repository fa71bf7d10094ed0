package config

import (
	"strings"
	"syscall"
	"testing"

	"github.com/viraptor/libremotec/pkg/client"
)

func TestDecodeTCP_HostWithPort(t *testing.T) {
	tcp, err := decodeTCP(map[string]any{"host": "srv.example.com:9000", "port": 12345})
	if err != nil {
		t.Fatalf("decodeTCP failed: %v", err)
	}
	if tcp.Host != "srv.example.com" || tcp.Port != 9000 {
		t.Errorf("Unexpected tcp config %+v", tcp)
	}
}

func TestDecodeTCP_StringPort(t *testing.T) {
	tcp, err := decodeTCP(map[string]any{"port": "4000"})
	if err != nil {
		t.Fatalf("decodeTCP failed: %v", err)
	}
	if tcp.Port != 4000 {
		t.Errorf("Expected port 4000, got %d", tcp.Port)
	}
}

func TestDecodeTransport_UnknownType(t *testing.T) {
	_, err := decodeTransport(&TransportConfig{Type: "carrier-pigeon"})
	if err == nil {
		t.Fatal("Expected error for unknown transport type")
	}
	if !strings.Contains(err.Error(), "unknown transport type") {
		t.Errorf("Expected 'unknown transport type' error, got: %v", err)
	}
}

func TestNewRouter(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Client.LocalPaths = "/etc:/usr"
	cfg.Client.MaxOpen = 4
	cfg.Client.CwdPolicy = "reject"

	var fatals []*client.FatalError
	r, err := NewRouter(cfg, func(err *client.FatalError) { fatals = append(fatals, err) })
	if err != nil {
		t.Fatalf("NewRouter failed: %v", err)
	}

	if got := r.Descriptors().Cap(); got != 4 {
		t.Errorf("Expected table capacity 4, got %d", got)
	}

	// Rejected before any connection is attempted.
	if _, err := r.Open("relative", 0); err != syscall.EINVAL {
		t.Errorf("Expected EINVAL for relative path, got %v", err)
	}
	if len(fatals) != 0 {
		t.Errorf("Expected no fatal errors, got %v", fatals)
	}
}

func TestNewServer(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Transport.Type = "unix"
	cfg.Transport.Unix["path"] = t.TempDir() + "/srv.sock"

	srv, err := NewServer(cfg, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen failed: %v", err)
	}
	defer func() { _ = srv.Close() }()
	if srv.Addr() == nil {
		t.Error("Expected a bound address")
	}
}

func TestInitializeMetrics_Disabled(t *testing.T) {
	result := InitializeMetrics(GetDefaultConfig(), nil)
	if result.Server != nil {
		t.Error("Expected no metrics server when disabled")
	}
	if result.DispatchMetrics == nil {
		t.Error("Expected no-op dispatch metrics")
	}
}
