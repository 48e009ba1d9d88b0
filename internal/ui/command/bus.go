package command

import (
	"context"

	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Request encapsulates one session call made on behalf of the UI.
type Request struct {
	ID    string
	Label string
	Run   func(context.Context) (dispatch.Outcome, error)
}

// Result is delivered to the model when a request finishes.
type Result struct {
	ID      string
	Label   string
	Outcome dispatch.Outcome
	Err     error
}

// Bus runs session calls off the Bubble Tea event loop.
type Bus struct {
	ctx context.Context
}

// New initialises a command bus. Every request runs with ctx.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx}
}

// Execute wraps a request into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	return func() tea.Msg {
		if req.Run == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		out, err := req.Run(b.ctx)
		events.Command.Result(req.ID, req.Label, out.State.String())
		return Result{ID: req.ID, Label: req.Label, Outcome: out, Err: err}
	}
}
