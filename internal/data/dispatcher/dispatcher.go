package dispatcher

import (
	"strings"

	"github.com/atomicstack/winadmin/internal/backend"
	"github.com/atomicstack/winadmin/internal/state"
)

type Result struct {
	DashboardUpdated bool
}

// Dispatcher applies backend events to the dashboard store.
type Dispatcher struct {
	dashboard state.DashboardStore
}

func New(d state.DashboardStore) *Dispatcher {
	return &Dispatcher{dashboard: d}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	switch evt.Kind {
	case backend.KindCurrentUser:
		snap, ok := evt.Data.(backend.UserSnapshot)
		if !ok {
			return res
		}
		if evt.Err != nil {
			d.dashboard.SetError(snap.Target, evt.Err.Error(), snap.At)
		} else {
			d.dashboard.SetCurrentUser(snap.Target, strings.TrimSpace(snap.User), snap.At)
		}
		res.DashboardUpdated = true
	}
	return res
}
