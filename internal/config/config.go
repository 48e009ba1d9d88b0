package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/winadmin/internal/app"
	"github.com/atomicstack/winadmin/internal/dispatch"
	flag "github.com/spf13/pflag"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Features Features
	Flags    map[string]string
	Args     []string
	// Positional holds a one-shot invocation: <command> [target].
	Positional []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

type Features struct {
	Verbose bool
}

const (
	envBridge         = "WINADMIN_BRIDGE"
	envSSHAddr        = "WINADMIN_SSH_ADDR"
	envSSHUser        = "WINADMIN_SSH_USER"
	envSSHKey         = "WINADMIN_SSH_KEY"
	envSSHKnownHosts  = "WINADMIN_SSH_KNOWN_HOSTS"
	envSSHPasswordEnv = "WINADMIN_SSH_PASSWORD_ENV"
	envNATSURL        = "WINADMIN_NATS_URL"
	envNATSSubject    = "WINADMIN_NATS_SUBJECT"
	envNATSTimeout    = "WINADMIN_NATS_TIMEOUT"
	envAgent          = "WINADMIN_AGENT"
	envLayoutStore    = "WINADMIN_LAYOUT_STORE"
	envLayoutPath     = "WINADMIN_LAYOUT_PATH"
	envOutputPolicy   = "WINADMIN_OUTPUT_POLICY"
	envSerialize      = "WINADMIN_SERIALIZE"
	envConsoleTimeout = "WINADMIN_CONSOLE_TIMEOUT"
	envPollInterval   = "WINADMIN_POLL_INTERVAL"
	envMetricsAddr    = "WINADMIN_METRICS_ADDR"
	envWidth          = "WINADMIN_WIDTH"
	envHeight         = "WINADMIN_HEIGHT"
	envShowFooter     = "WINADMIN_FOOTER"
	envVerbose        = "WINADMIN_VERBOSE"
	envTrace          = "WINADMIN_TRACE"
	envLogFile        = "WINADMIN_LOG_FILE"
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("winadmin", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	bridgeKind := fs.String("bridge", envOrDefault(env, envBridge, app.BridgeHost), "bridge implementation: host, ssh or nats")
	sshAddr := fs.String("ssh-addr", envOrDefault(env, envSSHAddr, ""), "jump host address for the ssh bridge (host[:port])")
	sshUser := fs.String("ssh-user", envOrDefault(env, envSSHUser, ""), "user for the ssh bridge")
	sshKey := fs.String("ssh-key", envOrDefault(env, envSSHKey, ""), "private key for the ssh bridge")
	sshKnownHosts := fs.String("ssh-known-hosts", envOrDefault(env, envSSHKnownHosts, ""), "known_hosts file; empty skips host key checks")
	sshPasswordEnv := fs.String("ssh-password-env", envOrDefault(env, envSSHPasswordEnv, ""), "environment variable holding the ssh password")
	natsURL := fs.String("nats-url", envOrDefault(env, envNATSURL, "nats://127.0.0.1:4222"), "NATS server for the nats bridge and agent")
	natsSubject := fs.String("nats-subject", envOrDefault(env, envNATSSubject, "winadmin"), "subject prefix for bridge requests")
	natsTimeout := fs.Duration("nats-timeout", envOrDuration(env, envNATSTimeout, 2*time.Minute), "how long a nats request may wait for the agent")
	agent := fs.Bool("agent", envOrBool(env, envAgent, false), "serve bridge requests over NATS instead of starting the console")
	layoutStore := fs.String("layout-store", envOrDefault(env, envLayoutStore, app.LayoutYAML), "layout persistence: yaml, badger or none")
	layoutPath := fs.String("layout-path", envOrDefault(env, envLayoutPath, ""), "layout file or badger directory")
	outputPolicy := fs.String("output-policy", envOrDefault(env, envOutputPolicy, "resolved"), "which overlapping result wins the terminal: resolved or issued")
	serialize := fs.Bool("serialize", envOrBool(env, envSerialize, false), "run at most one bridge call per target at a time")
	consoleTimeout := fs.Duration("console-timeout", envOrDuration(env, envConsoleTimeout, 30*time.Second), "kill remote consoles still running after this long (0 disables)")
	pollInterval := fs.Duration("poll-interval", envOrDuration(env, envPollInterval, 30*time.Second), "dashboard refresh interval (0 disables)")
	metricsAddr := fs.String("metrics-addr", envOrDefault(env, envMetricsAddr, ""), "serve Prometheus metrics on this address")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, true), "show the key help row")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	verbose := fs.Bool("verbose", envOrBool(env, envVerbose, false), "show outcome details in the status line")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	cfg := Config{
		App: app.Config{
			Bridge:         *bridgeKind,
			SSHAddr:        *sshAddr,
			SSHUser:        *sshUser,
			SSHKeyPath:     *sshKey,
			SSHKnownHosts:  *sshKnownHosts,
			SSHPasswordEnv: *sshPasswordEnv,
			NATSURL:        *natsURL,
			NATSSubject:    *natsSubject,
			NATSTimeout:    *natsTimeout,
			Agent:          *agent,
			LayoutStore:    *layoutStore,
			LayoutPath:     *layoutPath,
			OutputPolicy:   *outputPolicy,
			Serialize:      *serialize,
			ConsoleTimeout: *consoleTimeout,
			PollInterval:   *pollInterval,
			MetricsAddr:    *metricsAddr,
			Width:          *width,
			Height:         *height,
			ShowFooter:     *footer,
			Verbose:        *verbose,
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Features: Features{
			Verbose: *verbose,
		},
		Flags: map[string]string{
			"bridge":          *bridgeKind,
			"ssh-addr":        *sshAddr,
			"ssh-user":        *sshUser,
			"ssh-key":         *sshKey,
			"nats-url":        *natsURL,
			"nats-subject":    *natsSubject,
			"agent":           strconv.FormatBool(*agent),
			"layout-store":    *layoutStore,
			"layout-path":     *layoutPath,
			"output-policy":   *outputPolicy,
			"serialize":       strconv.FormatBool(*serialize),
			"console-timeout": consoleTimeout.String(),
			"poll-interval":   pollInterval.String(),
			"metrics-addr":    *metricsAddr,
			"width":           strconv.Itoa(*width),
			"height":          strconv.Itoa(*height),
			"footer":          strconv.FormatBool(*footer),
			"trace":           strconv.FormatBool(*trace),
			"verbose":         strconv.FormatBool(*verbose),
			"logFile":         *logFile,
		},
		Args:       append([]string(nil), args...),
		Positional: fs.Args(),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate ensures required minimum configuration is present.
func Validate(cfg Config) error {
	a := cfg.App
	if len(cfg.Positional) > 2 {
		return fmt.Errorf("expected <command> [target], got %d arguments", len(cfg.Positional))
	}
	if len(cfg.Positional) > 0 && a.Agent {
		return fmt.Errorf("a one-shot command cannot run with --agent")
	}
	switch a.Bridge {
	case app.BridgeHost:
	case app.BridgeSSH:
		if a.SSHAddr == "" {
			return fmt.Errorf("--ssh-addr is required for the ssh bridge")
		}
		if a.SSHKeyPath == "" && a.SSHPasswordEnv == "" {
			return fmt.Errorf("the ssh bridge needs --ssh-key or --ssh-password-env")
		}
	case app.BridgeNATS:
		if a.NATSURL == "" {
			return fmt.Errorf("--nats-url is required for the nats bridge")
		}
	default:
		return fmt.Errorf("unknown bridge %q", a.Bridge)
	}
	if a.Agent && a.Bridge == app.BridgeNATS {
		return fmt.Errorf("an agent cannot forward to another nats bridge")
	}
	switch a.LayoutStore {
	case app.LayoutYAML, app.LayoutBadger, app.LayoutNone:
	default:
		return fmt.Errorf("unknown layout store %q", a.LayoutStore)
	}
	if _, err := dispatch.ParsePolicy(a.OutputPolicy); err != nil {
		return err
	}
	if a.ConsoleTimeout < 0 || a.PollInterval < 0 || a.NATSTimeout < 0 {
		return fmt.Errorf("durations must be >= 0")
	}
	return nil
}
