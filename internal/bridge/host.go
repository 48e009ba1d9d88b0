package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/logging/events"
)

// DefaultConsoleTimeout bounds how long a target-bound console may run
// before it is killed.
const DefaultConsoleTimeout = 30 * time.Second

// Resolver performs reverse lookups for IP targets.
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
}

// consoleSpec describes how an open_* command launches its console.
type consoleSpec struct {
	label  string
	argv   func(target string) []string
	remote bool
}

func snapin(msc string) func(string) []string {
	return func(target string) []string {
		return []string{"mmc.exe", msc, "/computer:" + target}
	}
}

func localSnapin(msc string) func(string) []string {
	return func(string) []string { return []string{"mmc.exe", msc} }
}

var consoles = map[command.Command]consoleSpec{
	command.OpenCShare: {label: "C$ share", remote: true, argv: func(t string) []string {
		return []string{"explorer.exe", `\\` + t + `\c$`}
	}},
	command.OpenUsersGroups:     {label: "lusrmgr.msc", remote: true, argv: snapin("lusrmgr.msc")},
	command.OpenShares:          {label: "shares", remote: true, argv: snapin("fsmgmt.msc")},
	command.OpenServices:        {label: "services", remote: true, argv: snapin("services.msc")},
	command.OpenEventViewer:     {label: "Event Viewer", remote: true, argv: snapin("eventvwr.msc")},
	command.OpenCompMgmt:        {label: "Computer Management", remote: true, argv: snapin("compmgmt.msc")},
	command.OpenDeviceManager:   {label: "Device Manager", remote: true, argv: snapin("devmgmt.msc")},
	command.OpenPerfMon:         {label: "Performance Monitor", remote: true, argv: snapin("perfmon")},
	command.OpenPrintManagement: {label: "Print Management", remote: true, argv: snapin("printmanagement.msc")},
	command.OpenADUC:            {label: "Active Directory", argv: localSnapin("dsa.msc")},
	command.OpenDHCP:            {label: "DHCP", argv: localSnapin("dhcpmgmt.msc")},
	command.OpenDNS:             {label: "DNS", argv: localSnapin("dnsmgmt.msc")},
	command.OpenGroupPolicy:     {label: "Group Policy", argv: localSnapin("gpmc.msc")},
}

// Host executes catalogue operations against the current target using an
// Executor. It keeps its own copy of the target, which may be the resolved
// host name rather than the value the operator typed.
type Host struct {
	exec     Executor
	resolver Resolver
	tracker  *tracker

	mu     sync.Mutex
	target string
}

// HostOption customises a Host.
type HostOption func(*Host)

// WithResolver replaces the reverse-lookup resolver.
func WithResolver(r Resolver) HostOption {
	return func(h *Host) { h.resolver = r }
}

// WithConsoleTimeout sets how long consoles may run; zero disables reaping.
func WithConsoleTimeout(d time.Duration) HostOption {
	return func(h *Host) { h.tracker.timeout = d }
}

func NewHost(exec Executor, opts ...HostOption) *Host {
	h := &Host{
		exec:     exec,
		resolver: net.DefaultResolver,
		tracker:  newTracker(DefaultConsoleTimeout),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// resolvedTarget returns the host-side target as resolved by set_target.
func (h *Host) resolvedTarget() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.target
}

// Close kills every console still being tracked.
func (h *Host) Close() error {
	h.tracker.killAll()
	return nil
}

func (h *Host) Invoke(ctx context.Context, name string, params map[string]string) (string, error) {
	cmd, err := command.Parse(name)
	if err != nil {
		return "", err
	}
	if cmd == command.SetTarget {
		return "", h.setTarget(ctx, params[command.ParamTarget])
	}
	spec, isConsole := consoles[cmd]
	if isConsole && !spec.remote {
		return "", h.launch(ctx, spec, "")
	}
	target := h.resolvedTarget()
	if strings.TrimSpace(target) == "" {
		return "", ErrNoTarget
	}
	if isConsole {
		return "", h.launch(ctx, spec, target)
	}
	switch cmd {
	case command.Ping:
		return h.output(ctx, "ping", []string{"ping", "-n", "2", target})
	case command.Restart:
		return h.output(ctx, "restart", shutdownArgv("/r", target))
	case command.Shutdown:
		return h.output(ctx, "shutdown", shutdownArgv("/s", target))
	case command.CurrentUser:
		return h.remote(ctx, target, "(Get-WmiObject -Class Win32_ComputerSystem).UserName")
	case command.IPConfig:
		return h.remote(ctx, target, "(ipconfig /all)")
	}
	return "", fmt.Errorf("%w: %s has no host implementation", command.ErrUnknownCommand, cmd)
}

func shutdownArgv(mode, target string) []string {
	return []string{"cmd", "/C", "shutdown", mode, "/t", "0", "/m", `\\` + target}
}

func (h *Host) setTarget(ctx context.Context, value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyTarget
	}
	resolved := value
	if ip := net.ParseIP(value); ip != nil {
		names, err := h.resolver.LookupAddr(ctx, ip.String())
		switch {
		case err != nil:
			logging.Error(fmt.Errorf("reverse lookup %s: %w", value, err))
		case len(names) == 0:
			return errors.New("Reverse lookup returned no results")
		default:
			resolved = strings.TrimSuffix(names[0], ".")
		}
	}
	h.mu.Lock()
	h.target = resolved
	h.mu.Unlock()
	events.Target.Set(resolved)
	return nil
}

func (h *Host) output(ctx context.Context, what string, argv []string) (string, error) {
	res, err := h.exec.Output(ctx, argv)
	if err != nil {
		return "", fmt.Errorf("Failed to execute %s: %w", what, err)
	}
	return string(res.Stdout), nil
}

func (h *Host) remote(ctx context.Context, target, script string) (string, error) {
	ps := fmt.Sprintf("Invoke-Command -ComputerName %s -ScriptBlock {%s}", target, script)
	res, err := h.exec.Output(ctx, []string{"powershell", "-NoProfile", "-Command", ps})
	if err != nil {
		return "", fmt.Errorf("Failed to execute PowerShell: %w", err)
	}
	if strings.TrimSpace(string(res.Stdout)) != "" {
		return string(res.Stdout), nil
	}
	return string(res.Stderr), nil
}

func (h *Host) launch(ctx context.Context, spec consoleSpec, target string) error {
	p, err := h.exec.Start(ctx, spec.argv(target))
	if err != nil {
		return fmt.Errorf("Failed to open %s: %w", spec.label, err)
	}
	if spec.remote {
		h.tracker.add(p)
	}
	return nil
}
