package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/atomicstack/winadmin/internal/backend"
	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/metrics"
	"github.com/atomicstack/winadmin/internal/session"
	"github.com/atomicstack/winadmin/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Bridge implementations.
const (
	BridgeHost = "host"
	BridgeSSH  = "ssh"
	BridgeNATS = "nats"
)

// Layout persisters.
const (
	LayoutYAML   = "yaml"
	LayoutBadger = "badger"
	LayoutNone   = "none"
)

// Config describes user-provided application options.
type Config struct {
	Bridge         string
	SSHAddr        string
	SSHUser        string
	SSHKeyPath     string
	SSHKnownHosts  string
	SSHPasswordEnv string
	NATSURL        string
	NATSSubject    string
	NATSTimeout    time.Duration
	Agent          bool
	LayoutStore    string
	LayoutPath     string
	OutputPolicy   string
	Serialize      bool
	ConsoleTimeout time.Duration
	PollInterval   time.Duration
	MetricsAddr    string
	Width          int
	Height         int
	ShowFooter     bool
	Verbose        bool
}

// Run bootstraps and executes the console, or the NATS agent when cfg.Agent
// is set.
func Run(cfg Config) (err error) {
	defer func() { events.App.Stop(err) }()
	if cfg.Agent {
		return runAgent(cfg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b, err := newBridge(cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	layouts, err := newLayoutStore(ctx, cfg)
	if err != nil {
		return err
	}

	policy, err := dispatch.ParsePolicy(cfg.OutputPolicy)
	if err != nil {
		return err
	}
	opts := dispatch.Options{Policy: policy, Serialize: cfg.Serialize}
	if cfg.MetricsAddr != "" {
		collector := metrics.NewCollector()
		opts.Metrics = collector
		go func() { _ = collector.Serve(ctx, cfg.MetricsAddr) }()
	}

	sess := session.New(b, session.Options{Layouts: layouts, Dispatch: opts})
	defer func() {
		if cerr := sess.Close(); cerr != nil {
			logging.Error(fmt.Errorf("close layouts: %w", cerr))
		}
	}()

	var watcher *backend.Watcher
	if cfg.PollInterval > 0 {
		watcher = backend.NewWatcher(b, sess.TargetStore(), cfg.PollInterval)
		defer watcher.Stop()
	}

	model := ui.NewModel(sess, ui.Options{
		Width:      cfg.Width,
		Height:     cfg.Height,
		ShowFooter: cfg.ShowFooter,
		Verbose:    cfg.Verbose,
		Watcher:    watcher,
		Settings:   settingsRows(cfg),
		Animate:    true,
		Context:    ctx,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// runAgent answers bridge requests arriving over NATS with the host bridge
// until interrupted.
func runAgent(cfg Config) error {
	nc, err := bridge.Connect(cfg.NATSURL, "winadmin-agent")
	if err != nil {
		return err
	}
	defer nc.Drain()

	host := newHostBridge(cfg)
	defer host.Close()

	sub, err := bridge.Serve(nc, cfg.NATSSubject, host)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()
	events.App.Agent(sub.Subject)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	<-sig
	return nil
}

// settingsRows lists the effective configuration for the settings section.
func settingsRows(cfg Config) [][2]string {
	rows := [][2]string{{"Bridge", cfg.Bridge}}
	switch cfg.Bridge {
	case BridgeSSH:
		rows = append(rows, [2]string{"SSH host", cfg.SSHAddr}, [2]string{"SSH user", cfg.SSHUser})
	case BridgeNATS:
		rows = append(rows, [2]string{"NATS server", cfg.NATSURL}, [2]string{"NATS subject", cfg.NATSSubject})
	}
	layoutStore := cfg.LayoutStore
	if cfg.LayoutPath != "" {
		layoutStore += " (" + cfg.LayoutPath + ")"
	}
	rows = append(rows,
		[2]string{"Layout store", layoutStore},
		[2]string{"Output policy", cfg.OutputPolicy},
		[2]string{"Serialize per target", strconv.FormatBool(cfg.Serialize)},
		[2]string{"Console timeout", durationOrOff(cfg.ConsoleTimeout)},
		[2]string{"Dashboard refresh", durationOrOff(cfg.PollInterval)},
	)
	if cfg.MetricsAddr != "" {
		rows = append(rows, [2]string{"Metrics", "http://" + cfg.MetricsAddr + "/metrics"})
	}
	return rows
}

func durationOrOff(d time.Duration) string {
	if d <= 0 {
		return "off"
	}
	return d.String()
}
