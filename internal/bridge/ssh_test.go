package bridge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/atomicstack/winadmin/internal/logging"
)

func TestSSHConfigWarnsWithoutKnownHosts(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "winadmin.log")
	logging.Configure(logPath)
	t.Cleanup(func() { logging.Configure("") })

	cfg, err := buildClientConfig(SSHConfig{Addr: "jump:22", User: "admin", Password: "secret"})
	if err != nil {
		t.Fatalf("build config: %v", err)
	}
	if cfg.HostKeyCallback == nil {
		t.Fatalf("expected a host key callback")
	}
	logging.Sync()
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "host key checking disabled for jump:22") {
		t.Fatalf("expected host key warning in log, got %q", data)
	}
}

func TestSSHConfigNeedsCredentials(t *testing.T) {
	if _, err := buildClientConfig(SSHConfig{Addr: "jump", User: "admin"}); err == nil {
		t.Fatalf("expected error without password or key")
	}
}
