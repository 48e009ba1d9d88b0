package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/atomicstack/winadmin/internal/ui/command"
	uistate "github.com/atomicstack/winadmin/internal/ui/state"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		return tea.Quit
	}
	switch m.mode {
	case ModeTarget:
		return m.handleTargetKey(keyMsg)
	case ModeConfirm:
		return m.handleConfirmKey(keyMsg)
	case ModeLayout:
		return m.handleLayoutKey(keyMsg)
	default:
		return m.handleBrowseKey(keyMsg)
	}
}

func (m *Model) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	current := m.currentLevel()
	switch {
	case key.Matches(msg, m.keys.NextSection):
		m.switchSection(1)
	case key.Matches(msg, m.keys.PrevSection):
		m.switchSection(-1)
	case key.Matches(msg, m.keys.Up):
		if current.MoveCursorUp() {
			events.UI.Cursor(current.ID, current.Cursor)
		}
	case key.Matches(msg, m.keys.Down):
		if current.MoveCursorDown() {
			events.UI.Cursor(current.ID, current.Cursor)
		}
	case key.Matches(msg, m.keys.Home):
		current.MoveCursorHome()
	case key.Matches(msg, m.keys.End):
		current.MoveCursorEnd()
	case key.Matches(msg, m.keys.ScrollUp):
		m.terminal.HalfViewUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.terminal.HalfViewDown()
	case key.Matches(msg, m.keys.Select):
		item, ok := current.Current()
		if !ok {
			return nil
		}
		return m.runItem(item)
	case key.Matches(msg, m.keys.EditTarget):
		return m.startTargetEntry()
	case key.Matches(msg, m.keys.EditLayout):
		m.startLayoutEdit()
	case key.Matches(msg, m.keys.ClearFilter), key.Matches(msg, m.keys.Back):
		if current.Filter != "" {
			m.setFilter("")
			events.Filter.Cleared(current.ID)
		}
	default:
		return m.updateFilter(msg)
	}
	return nil
}

// switchSection moves delta places along the sidebar, wrapping around.
func (m *Model) switchSection(delta int) {
	sections := state.Sections()
	idx := int(m.session.Section()) + delta
	idx = (idx%len(sections) + len(sections)) % len(sections)
	m.session.SwitchSection(sections[idx])
	m.errMsg = ""
	m.filterInput.SetValue(m.currentLevel().Filter)
	m.filterInput.CursorEnd()
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	before := m.filterInput.Value()
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	if after := m.filterInput.Value(); after != before {
		m.currentLevel().SetFilter(after)
		events.Filter.Changed(m.currentLevel().ID, after)
	}
	return cmd
}

func (m *Model) setFilter(value string) {
	m.filterInput.SetValue(value)
	m.currentLevel().SetFilter(value)
}

// runItem dispatches the command behind an action list entry.
func (m *Model) runItem(item uistate.Item) tea.Cmd {
	events.UI.Select(m.session.Section().String(), item.ID)
	cmd := item.Command
	return m.execute(item.ID, item.Label, func(ctx context.Context) (dispatch.Outcome, error) {
		return m.session.Dispatch(ctx, cmd), nil
	})
}

func (m *Model) execute(id, label string, run func(context.Context) (dispatch.Outcome, error)) tea.Cmd {
	m.requestSeq++
	m.inflight++
	m.errMsg = ""
	req := command.Request{ID: fmt.Sprintf("%s#%d", id, m.requestSeq), Label: label, Run: run}
	cmds := []tea.Cmd{m.bus.Execute(req)}
	if m.animate && m.inflight == 1 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleResultMsg(msg tea.Msg) tea.Cmd {
	res, ok := msg.(command.Result)
	if !ok {
		return nil
	}
	if m.inflight > 0 {
		m.inflight--
	}
	if res.Err != nil {
		m.errMsg = res.Err.Error()
		return nil
	}
	out := res.Outcome
	switch out.State {
	case dispatch.StatePendingConfirmation:
		m.pending = out.Pending
		m.setMode(ModeConfirm)
		return nil
	case dispatch.StateDeclined:
		m.setInfo(fmt.Sprintf("%s cancelled", out.Command.Label()))
	case dispatch.StateStale:
		m.setInfo(fmt.Sprintf("%s finished after a newer command; result discarded", out.Command.Label()))
	case dispatch.StateFailed:
		m.setInfo(fmt.Sprintf("%s failed", out.Command.Label()))
	default:
		m.setInfo(fmt.Sprintf("%s done", out.Command.Label()))
	}
	m.terminal.GotoTop()
	return nil
}

func (m *Model) setInfo(info string) {
	if !m.verbose {
		m.infoMsg = ""
		return
	}
	m.infoMsg = strings.TrimSpace(info)
}
