package ui

import (
	"context"

	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) startTargetEntry() tea.Cmd {
	m.targetInput.SetValue(m.session.Target())
	m.targetInput.CursorEnd()
	m.filterInput.Blur()
	m.setMode(ModeTarget)
	return m.targetInput.Focus()
}

func (m *Model) finishTargetEntry() {
	m.targetInput.Blur()
	m.setMode(ModeBrowse)
	m.filterInput.Focus()
}

func (m *Model) handleTargetKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		value := m.targetInput.Value()
		m.finishTargetEntry()
		return m.execute("set_target", "Set Target", func(ctx context.Context) (dispatch.Outcome, error) {
			return m.session.SetTarget(ctx, value), nil
		})
	case tea.KeyEsc:
		m.finishTargetEntry()
		return nil
	}
	var cmd tea.Cmd
	m.targetInput, cmd = m.targetInput.Update(msg)
	return cmd
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	var accepted bool
	switch {
	case key.Matches(msg, m.keys.Accept):
		accepted = true
	case key.Matches(msg, m.keys.Decline):
		accepted = false
	default:
		return nil
	}
	pending := m.pending
	m.pending = nil
	m.setMode(ModeBrowse)
	if pending == nil {
		return nil
	}
	id := pending.ID
	return m.execute(pending.Command.Name(), pending.Command.Label(), func(ctx context.Context) (dispatch.Outcome, error) {
		return m.session.ResolveConfirmation(ctx, id, accepted)
	})
}
