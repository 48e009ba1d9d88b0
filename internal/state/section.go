package state

import (
	"fmt"
	"sync"

	"github.com/atomicstack/winadmin/internal/command"
)

// Section is a functional area of the console.
type Section int

const (
	SectionDashboard Section = iota
	SectionSystem
	SectionNetwork
	SectionDirectory
	SectionInstall
	SectionSettings

	numSections
)

// Panel slot identifiers shared by every grid section.
const (
	SlotActions  = "actions"
	SlotTerminal = "terminal"
	SlotInfo1    = "info1"
	SlotInfo2    = "info2"
)

var sectionNames = [numSections]string{
	SectionDashboard: "dashboard",
	SectionSystem:    "system",
	SectionNetwork:   "network",
	SectionDirectory: "active_directory",
	SectionInstall:   "install",
	SectionSettings:  "settings",
}

var sectionTitles = [numSections]string{
	SectionDashboard: "Dashboard",
	SectionSystem:    "System",
	SectionNetwork:   "Network",
	SectionDirectory: "Active Directory",
	SectionInstall:   "Install",
	SectionSettings:  "Settings",
}

var sectionCommands = [numSections][]command.Command{
	SectionSystem: {
		command.OpenUsersGroups,
		command.CurrentUser,
		command.OpenDeviceManager,
		command.OpenShares,
		command.OpenCShare,
		command.OpenEventViewer,
		command.OpenServices,
		command.OpenCompMgmt,
		command.OpenPerfMon,
		command.OpenPrintManagement,
	},
	SectionNetwork: {
		command.Ping,
		command.IPConfig,
		command.OpenDHCP,
		command.OpenDNS,
		command.OpenGroupPolicy,
	},
	SectionDirectory: {
		command.OpenADUC,
	},
}

var gridSlots = []string{SlotActions, SlotTerminal, SlotInfo1, SlotInfo2}

// QuickActions are reachable from every section.
var QuickActions = []command.Command{command.Ping, command.Restart, command.Shutdown}

// Sections lists all sections in sidebar order.
func Sections() []Section {
	out := make([]Section, 0, numSections)
	for s := Section(0); s < numSections; s++ {
		out = append(out, s)
	}
	return out
}

// ParseSection resolves a section by its identifier.
func ParseSection(name string) (Section, error) {
	for s := Section(0); s < numSections; s++ {
		if sectionNames[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown section %q", name)
}

func (s Section) Valid() bool { return s >= 0 && s < numSections }

func (s Section) String() string {
	if !s.Valid() {
		return fmt.Sprintf("section(%d)", int(s))
	}
	return sectionNames[s]
}

func (s Section) Title() string {
	if !s.Valid() {
		return s.String()
	}
	return sectionTitles[s]
}

// Commands returns the section's own command subset, excluding quick actions.
func (s Section) Commands() []command.Command {
	if !s.Valid() {
		return nil
	}
	src := sectionCommands[s]
	out := make([]command.Command, len(src))
	copy(out, src)
	return out
}

// HasGrid reports whether the section renders the panel grid.
func (s Section) HasGrid() bool {
	return len(s.Slots()) > 0
}

// Slots returns the panel slots the section lays out.
func (s Section) Slots() []string {
	switch s {
	case SectionSystem, SectionNetwork, SectionDirectory:
		out := make([]string, len(gridSlots))
		copy(out, gridSlots)
		return out
	default:
		return nil
	}
}

// Navigator tracks the active section. Any section may follow any other.
type Navigator interface {
	Active() Section
	Set(Section) Section
}

type navigator struct {
	mu     sync.RWMutex
	active Section
}

func NewNavigator() Navigator {
	return &navigator{active: SectionDashboard}
}

func (n *navigator) Active() Section {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.active
}

// Set activates s and returns the previously active section.
func (n *navigator) Set(s Section) Section {
	n.mu.Lock()
	defer n.mu.Unlock()
	prev := n.active
	n.active = s
	return prev
}
