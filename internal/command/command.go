// Package command defines the closed catalogue of remote-management
// operations the console can dispatch. Commands are values of a fixed
// enumeration; nothing inside the console looks a command up by name. The
// only name-based entry point is Parse, used at process edges (the NATS
// agent and the command line) where input arrives as text.
package command

import (
	"errors"
	"fmt"
)

// ErrUnknownCommand is returned by Parse for names outside the catalogue.
var ErrUnknownCommand = errors.New("unknown command")

// Command identifies one catalogue entry.
type Command int

const (
	SetTarget Command = iota
	Ping
	Restart
	Shutdown
	CurrentUser
	IPConfig
	OpenCShare
	OpenUsersGroups
	OpenShares
	OpenServices
	OpenEventViewer
	OpenCompMgmt
	OpenDeviceManager
	OpenADUC
	OpenDHCP
	OpenDNS
	OpenGroupPolicy
	OpenPerfMon
	OpenPrintManagement

	numCommands
)

// Projection selects how a successful bridge payload becomes display text.
type Projection int

const (
	// ProjectRaw passes the bridge payload through verbatim.
	ProjectRaw Projection = iota
	// ProjectPrefixed prepends the command's result prefix.
	ProjectPrefixed
	// ProjectOpened ignores the payload and reports the console as opened.
	ProjectOpened
	// ProjectTargetSet reports the submitted target.
	ProjectTargetSet
)

// Spec describes a catalogue entry.
type Spec struct {
	Name        string
	Label       string
	Destructive bool
	Prompt      string
	InProgress  string
	Projection  Projection
	Prefix      string
	ErrorFormat string
}

var specs = [numCommands]Spec{
	SetTarget: {
		Name:        "set_target",
		Label:       "Set Target",
		Projection:  ProjectTargetSet,
		ErrorFormat: "Failed to set target: %s",
	},
	Ping: {
		Name:        "ping",
		Label:       "Ping Machine",
		InProgress:  "Pinging...",
		ErrorFormat: "Ping error: %s",
	},
	Restart: {
		Name:        "issue_restart",
		Label:       "Restart",
		Destructive: true,
		Prompt:      "Are you sure you want to RESTART the remote machine?",
		InProgress:  "Restarting target machine...",
		ErrorFormat: "Restart error: %s",
	},
	Shutdown: {
		Name:        "issue_shutdown",
		Label:       "Shutdown",
		Destructive: true,
		Prompt:      "Are you sure you want to SHUTDOWN the remote machine?",
		InProgress:  "Shutting down target machine...",
		ErrorFormat: "Shutdown error: %s",
	},
	CurrentUser: {
		Name:        "get_current_user",
		Label:       "Get Current User",
		Projection:  ProjectPrefixed,
		Prefix:      "Current user: ",
		ErrorFormat: "Error: %s",
	},
	IPConfig: {
		Name:        "get_ipconfig",
		Label:       "Check IP Config",
		ErrorFormat: "Error: %s",
	},
	OpenCShare:          console("open_c_share", "C$"),
	OpenUsersGroups:     console("open_lusrmgr", "Users & Groups"),
	OpenShares:          console("open_shares", "Shares"),
	OpenServices:        console("open_services", "Services"),
	OpenEventViewer:     console("open_eventvwr", "Event Viewer"),
	OpenCompMgmt:        console("open_compmgmt", "Computer Management"),
	OpenDeviceManager:   console("open_devicemgr", "Device Manager"),
	OpenADUC:            console("open_aduc", "Active Directory"),
	OpenDHCP:            console("open_dhcp", "DHCP"),
	OpenDNS:             console("open_dns", "DNS"),
	OpenGroupPolicy:     console("open_gpu", "Group Policy"),
	OpenPerfMon:         console("open_perfmon", "Performance Monitor"),
	OpenPrintManagement: console("open_printmgr", "Print Management"),
}

func console(name, label string) Spec {
	return Spec{
		Name:        name,
		Label:       label,
		Projection:  ProjectOpened,
		ErrorFormat: "Error Opening " + label + ": %s",
	}
}

var byName = func() map[string]Command {
	m := make(map[string]Command, numCommands)
	for c := Command(0); c < numCommands; c++ {
		m[specs[c].Name] = c
	}
	return m
}()

// All lists every command in catalogue order.
func All() []Command {
	out := make([]Command, 0, numCommands)
	for c := Command(0); c < numCommands; c++ {
		out = append(out, c)
	}
	return out
}

// Parse resolves a bridge name to its command.
func Parse(name string) (Command, error) {
	c, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	return c, nil
}

// Valid reports whether c is a catalogue member.
func (c Command) Valid() bool {
	return c >= 0 && c < numCommands
}

// Spec returns the catalogue entry. It panics for values outside the
// enumeration, which can only be produced by an explicit conversion.
func (c Command) Spec() Spec {
	if !c.Valid() {
		panic(fmt.Sprintf("command: value %d outside catalogue", int(c)))
	}
	return specs[c]
}

func (c Command) Name() string      { return c.Spec().Name }
func (c Command) Label() string     { return c.Spec().Label }
func (c Command) Destructive() bool { return c.Spec().Destructive }

func (c Command) String() string {
	if !c.Valid() {
		return fmt.Sprintf("command(%d)", int(c))
	}
	return specs[c].Name
}

// Project converts a bridge payload into the text shown to the operator.
func (c Command) Project(payload string, params map[string]string) string {
	spec := c.Spec()
	switch spec.Projection {
	case ProjectPrefixed:
		return spec.Prefix + payload
	case ProjectOpened:
		return "Opened " + spec.Label
	case ProjectTargetSet:
		return "Target set: " + params[ParamTarget]
	default:
		return payload
	}
}

// FormatError renders a bridge rejection for display.
func (c Command) FormatError(err error) string {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return fmt.Sprintf(c.Spec().ErrorFormat, detail)
}

// ParamTarget is the only parameter key the catalogue uses.
const ParamTarget = "target"
