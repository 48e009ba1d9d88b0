// Package confirm implements the two-step confirmation protocol guarding
// destructive commands: Request registers a pending decision and Resolve
// settles it exactly once.
package confirm

import (
	"errors"
	"sync"

	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/google/uuid"
)

// ErrUnknown is returned when resolving an ID that is not pending.
var ErrUnknown = errors.New("no pending confirmation with that id")

// Pending is a confirmation awaiting an operator decision.
type Pending struct {
	ID      string
	Command command.Command
	Prompt  string
}

// Gate tracks pending confirmations.
type Gate struct {
	mu      sync.Mutex
	pending map[string]Pending
	newID   func() string
}

func NewGate() *Gate {
	return &Gate{
		pending: make(map[string]Pending),
		newID:   func() string { return uuid.NewString() },
	}
}

// Request registers a pending confirmation for cmd.
func (g *Gate) Request(cmd command.Command) Pending {
	p := Pending{ID: g.newID(), Command: cmd, Prompt: cmd.Spec().Prompt}
	g.mu.Lock()
	g.pending[p.ID] = p
	g.mu.Unlock()
	events.Confirm.Request(p.ID, cmd.Name())
	return p
}

// Resolve removes the pending confirmation and returns it.
func (g *Gate) Resolve(id string, accepted bool) (Pending, error) {
	g.mu.Lock()
	p, ok := g.pending[id]
	if ok {
		delete(g.pending, id)
	}
	g.mu.Unlock()
	if !ok {
		return Pending{}, ErrUnknown
	}
	events.Confirm.Resolve(id, p.Command.Name(), accepted)
	return p, nil
}

// Outstanding returns the number of unresolved confirmations.
func (g *Gate) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.pending)
}
