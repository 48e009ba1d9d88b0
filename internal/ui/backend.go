package ui

import (
	"github.com/atomicstack/winadmin/internal/backend"
	"github.com/atomicstack/winadmin/internal/logging"
	tea "github.com/charmbracelet/bubbletea"
)

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	evt, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	if evt.event.Err != nil {
		logging.Error(evt.event.Err)
	}
	m.dispatcher.Handle(evt.event)
	if m.backend == nil {
		return nil
	}
	return waitForBackendEvent(m.backend)
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}
