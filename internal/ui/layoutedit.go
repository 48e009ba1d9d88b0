package ui

import (
	"context"

	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const gridColumns = 12

func (m *Model) startLayoutEdit() {
	sec := m.session.Section()
	if !sec.HasGrid() {
		m.setInfo(sec.Title() + " has no panel layout")
		return
	}
	m.layoutDraft = m.session.Layout(sec)
	m.layoutSlot = 0
	m.filterInput.Blur()
	m.setMode(ModeLayout)
}

func (m *Model) finishLayoutEdit() {
	m.layoutDraft = nil
	m.layoutSlot = 0
	m.setMode(ModeBrowse)
	m.filterInput.Focus()
}

func (m *Model) handleLayoutKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.finishLayoutEdit()
		return nil
	case key.Matches(msg, m.keys.Save):
		m.saveLayout()
		return nil
	case key.Matches(msg, m.keys.NextPanel):
		if len(m.layoutDraft) > 0 {
			m.layoutSlot = (m.layoutSlot + 1) % len(m.layoutDraft)
		}
		return nil
	case key.Matches(msg, m.keys.Drop):
		m.dropPanel()
		return nil
	}
	entry := m.focusedEntry()
	if entry == nil {
		return nil
	}
	switch {
	case key.Matches(msg, m.keys.MoveLeft):
		entry.X = clamp(entry.X-1, 0, gridColumns-1)
	case key.Matches(msg, m.keys.MoveRight):
		entry.X = clamp(entry.X+1, 0, gridColumns-1)
	case key.Matches(msg, m.keys.MoveUp):
		entry.Y = max(entry.Y-1, 0)
	case key.Matches(msg, m.keys.MoveDown):
		entry.Y++
	case key.Matches(msg, m.keys.Wider):
		entry.Width = clamp(entry.Width+1, max(entry.MinWidth, 1), gridColumns)
	case key.Matches(msg, m.keys.Narrower):
		entry.Width = clamp(entry.Width-1, max(entry.MinWidth, 1), gridColumns)
	case key.Matches(msg, m.keys.Taller):
		entry.Height++
	case key.Matches(msg, m.keys.Shorter):
		entry.Height = max(entry.Height-1, max(entry.MinHeight, 1))
	}
	return nil
}

func (m *Model) focusedEntry() *layout.Entry {
	if m.layoutSlot < 0 || m.layoutSlot >= len(m.layoutDraft) {
		return nil
	}
	return &m.layoutDraft[m.layoutSlot]
}

func (m *Model) dropPanel() {
	if m.focusedEntry() == nil {
		return
	}
	m.layoutDraft = append(m.layoutDraft[:m.layoutSlot], m.layoutDraft[m.layoutSlot+1:]...)
	if m.layoutSlot >= len(m.layoutDraft) {
		m.layoutSlot = 0
	}
}

func (m *Model) saveLayout() {
	sec := m.session.Section()
	if err := m.session.SetLayout(context.Background(), sec, m.layoutDraft); err != nil {
		logging.Error(err)
		m.errMsg = err.Error()
		return
	}
	m.finishLayoutEdit()
	m.setInfo(sec.Title() + " layout saved")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
