package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/logging"
)

// closer is a bridge that owns resources released on exit.
type closer interface {
	bridge.Bridge
	Close() error
}

type natsBridge struct {
	*bridge.NATSClient
}

func (n natsBridge) Close() error {
	n.NATSClient.Close()
	return nil
}

func newBridge(cfg Config) (closer, error) {
	switch cfg.Bridge {
	case BridgeHost, "":
		return newHostBridge(cfg), nil
	case BridgeSSH:
		exec := bridge.NewSSHExecutor(bridge.SSHConfig{
			Addr:           cfg.SSHAddr,
			User:           cfg.SSHUser,
			Password:       passwordFromEnv(cfg.SSHPasswordEnv),
			KeyPath:        cfg.SSHKeyPath,
			KnownHostsPath: cfg.SSHKnownHosts,
		})
		return &sshBridge{Host: bridge.NewHost(exec, bridge.WithConsoleTimeout(cfg.ConsoleTimeout)), exec: exec}, nil
	case BridgeNATS:
		nc, err := bridge.Connect(cfg.NATSURL, "winadmin")
		if err != nil {
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		return natsBridge{bridge.NewNATSClient(nc, cfg.NATSSubject, cfg.NATSTimeout)}, nil
	default:
		return nil, fmt.Errorf("unknown bridge %q", cfg.Bridge)
	}
}

func newHostBridge(cfg Config) *bridge.Host {
	return bridge.NewHost(bridge.LocalExecutor{}, bridge.WithConsoleTimeout(cfg.ConsoleTimeout))
}

type sshBridge struct {
	*bridge.Host
	exec *bridge.SSHExecutor
}

func (s *sshBridge) Close() error {
	herr := s.Host.Close()
	if err := s.exec.Close(); err != nil {
		return err
	}
	return herr
}

func passwordFromEnv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}

// newLayoutStore opens the configured persister and restores saved layouts.
// Restore failures are logged; the console still starts on defaults.
func newLayoutStore(ctx context.Context, cfg Config) (*layout.Store, error) {
	var (
		p   layout.Persister
		err error
	)
	switch cfg.LayoutStore {
	case LayoutNone:
		return layout.NewStore(nil), nil
	case LayoutBadger:
		path := cfg.LayoutPath
		if path == "" {
			path, err = defaultBadgerPath()
			if err != nil {
				return nil, err
			}
		}
		p, err = layout.NewBadgerStore(path)
	default:
		p, err = layout.NewYAMLFile(cfg.LayoutPath)
	}
	if err != nil {
		return nil, fmt.Errorf("open layout store: %w", err)
	}
	store := layout.NewStore(p)
	if err := store.Restore(ctx); err != nil {
		logging.Error(fmt.Errorf("restore layouts from %s: %w", p.Name(), err))
	}
	return store, nil
}

func defaultBadgerPath() (string, error) {
	yamlPath, err := layout.DefaultPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(yamlPath), "layouts.badger"), nil
}
