// Package session ties the console state together: the target register,
// the active section, the output sink, panel layouts and the dispatcher.
// Renderers hold a *Session and never reach the stores directly.
package session

import (
	"context"

	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/confirm"
	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/state"
)

type Session struct {
	target     state.TargetStore
	nav        state.Navigator
	sink       state.OutputStore
	dashboard  state.DashboardStore
	layouts    *layout.Store
	dispatcher *dispatch.Dispatcher
}

// Options configures New. A nil Layouts gets an in-memory store.
type Options struct {
	Layouts  *layout.Store
	Dispatch dispatch.Options
}

func New(b bridge.Bridge, opts Options) *Session {
	s := &Session{
		target:    state.NewTargetStore(),
		nav:       state.NewNavigator(),
		sink:      state.NewOutputStore(),
		dashboard: state.NewDashboardStore(),
		layouts:   opts.Layouts,
	}
	if s.layouts == nil {
		s.layouts = layout.NewStore(nil)
	}
	s.dispatcher = dispatch.New(b, s.sink, s.target, confirm.NewGate(), opts.Dispatch)
	return s
}

// Target returns the accepted target, empty until one is set.
func (s *Session) Target() string { return s.target.Current() }

func (s *Session) TargetStore() state.TargetStore { return s.target }

// Output returns the sink's current text.
func (s *Session) Output() string { return s.sink.Read() }

func (s *Session) Sink() state.OutputStore { return s.sink }

func (s *Session) Dashboard() state.DashboardStore { return s.dashboard }

func (s *Session) SetTarget(ctx context.Context, value string) dispatch.Outcome {
	return s.dispatcher.SetTarget(ctx, value)
}

func (s *Session) Dispatch(ctx context.Context, cmd command.Command) dispatch.Outcome {
	return s.dispatcher.Dispatch(ctx, cmd)
}

func (s *Session) ResolveConfirmation(ctx context.Context, id string, accepted bool) (dispatch.Outcome, error) {
	return s.dispatcher.ResolveConfirmation(ctx, id, accepted)
}

// Section returns the active section.
func (s *Session) Section() state.Section { return s.nav.Active() }

// SwitchSection activates sec. Target and output are left alone.
func (s *Session) SwitchSection(sec state.Section) state.Section {
	prev := s.nav.Set(sec)
	events.Section.Switch(prev.String(), sec.String())
	return prev
}

// Commands lists the actions visible in the active section, section
// commands first and then the quick actions.
func (s *Session) Commands() []command.Command {
	cmds := s.nav.Active().Commands()
	return append(cmds, state.QuickActions...)
}

func (s *Session) Layout(sec state.Section) []layout.Entry { return s.layouts.Get(sec) }

func (s *Session) SetLayout(ctx context.Context, sec state.Section, entries []layout.Entry) error {
	return s.layouts.Set(ctx, sec, entries)
}

func (s *Session) Policy() dispatch.Policy { return s.dispatcher.Policy() }

// Close releases the layout persister.
func (s *Session) Close() error { return s.layouts.Close() }
