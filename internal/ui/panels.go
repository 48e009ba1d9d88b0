package ui

import (
	"sort"
	"strings"
	"time"

	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/format/table"
	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const placeholder = "--"

var infoTitles = map[state.Section][2]string{
	state.SectionSystem:    {"System Information", "System Performance"},
	state.SectionNetwork:   {"Network Status", "Network Traffic"},
	state.SectionDirectory: {"AD Domain Information", "Recent AD Events"},
}

// panel draws a bordered box of exactly width x height cells.
func panel(title, body string, width, height int, focused bool) string {
	style := styles.Panel
	if focused {
		style = styles.PanelFocused
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)
	lines := []string{}
	if title != "" {
		lines = append(lines, styles.PanelTitle.Render(title))
	}
	if body != "" {
		lines = append(lines, strings.Split(body, "\n")...)
	}
	if len(lines) > innerH {
		lines = lines[:innerH]
	}
	for i, line := range lines {
		lines[i] = clip(line, innerW)
	}
	for len(lines) < innerH {
		lines = append(lines, "")
	}
	return style.Width(innerW).Height(innerH).Render(strings.Join(lines, "\n"))
}

func (m *Model) viewActions(height int) string {
	current := m.currentLevel()
	if len(current.Items) == 0 {
		return styles.Info.Render("no matching actions")
	}
	visible := max(height, 1)
	current.EnsureCursorVisible(visible)
	start := current.ViewportOffset
	end := min(start+visible, len(current.Items))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		item := current.Items[i]
		label := item.Label
		style := styles.Item
		switch {
		case item.Command.Destructive():
			style = styles.Destructive
		case item.Quick:
			style = styles.QuickItem
		}
		if i == current.Cursor {
			lines = append(lines, styles.SelectedItem.Render("› "+label))
			continue
		}
		lines = append(lines, styles.ItemIndicator.Render("  ")+style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewTerminal(width, height int) string {
	m.terminal.Width = max(width, 1)
	m.terminal.Height = max(height, 1)
	out := m.session.Output()
	if out == "" {
		out = styles.Info.Render("No output yet.")
	} else {
		out = styles.Output.Render(ansi.Wrap(strings.TrimRight(out, "\n"), m.terminal.Width, ""))
	}
	m.terminal.SetContent(out)
	return m.terminal.View()
}

func (m *Model) dashboardRows() [][2]string {
	info := m.session.Dashboard().Snapshot()
	target := m.session.Target()
	rows := [][2]string{{"Target", orPlaceholder(target)}}
	user := placeholder
	if info.Target == target && info.CurrentUser != "" {
		user = info.CurrentUser
	}
	rows = append(rows, [2]string{"Current user", user})
	if info.Err != "" && info.Target == target {
		rows = append(rows, [2]string{"Last check", "failed: " + info.Err})
	} else {
		rows = append(rows, [2]string{"Last check", since(info.CheckedAt)})
	}
	rows = append(rows,
		[2]string{"Last result", since(m.session.Sink().UpdatedAt())},
		[2]string{"Output policy", m.session.Policy().String()},
	)
	return rows
}

func (m *Model) viewDashboard(width, height int) string {
	cards := m.dashboardRows()
	cardH := len(cards) + 3
	actionsH := len(m.currentLevel().Items) + 3
	termH := max(height-cardH-actionsH, 4)

	status := panel("Status", renderPairs(cards), width, cardH, false)
	term := panel("Terminal Output", m.viewTerminal(width-2, termH-3), width, termH, false)
	quick := panel("Quick Actions", m.viewActions(actionsH-3), width, actionsH, false)
	return lipgloss.JoinVertical(lipgloss.Left, status, term, quick)
}

func (m *Model) viewInstall(width, height int) string {
	actionsH := len(m.currentLevel().Items) + 3
	info := panel("Install", styles.Info.Render("No installers are configured."), width, max(height-actionsH, 3), false)
	quick := panel("Quick Actions", m.viewActions(actionsH-3), width, actionsH, false)
	return lipgloss.JoinVertical(lipgloss.Left, info, quick)
}

func (m *Model) viewSettings(width, height int) string {
	rows := [][]string{{"COMMAND", "LABEL", "CONFIRM"}}
	for _, c := range command.All() {
		confirm := ""
		if c.Destructive() {
			confirm = "yes"
		}
		rows = append(rows, []string{c.Name(), c.Label(), confirm})
	}
	catalogue := strings.Join(table.Format(rows, nil), "\n")
	settings := renderPairs(m.settings)

	settingsH := len(m.settings) + 3
	actionsH := len(m.currentLevel().Items) + 3
	catH := max(height-settingsH-actionsH, 4)
	return lipgloss.JoinVertical(lipgloss.Left,
		panel("Settings", settings, width, settingsH, false),
		panel("Commands", catalogue, width, catH, false),
		panel("Quick Actions", m.viewActions(actionsH-3), width, actionsH, false),
	)
}

// viewGrid lays the section's panels out on a twelve column grid. Entries
// sharing a Y coordinate form one row; rows share the available height in
// proportion to their tallest panel.
func (m *Model) viewGrid(sec state.Section, width, height int) string {
	entries := m.session.Layout(sec)
	editing := m.mode == ModeLayout
	if editing {
		entries = m.layoutDraft
	}
	if len(entries) == 0 {
		return styles.Info.Render("All panels removed. Press ctrl+e to edit the layout.")
	}
	focusID := ""
	if f := m.focusedEntry(); editing && f != nil {
		focusID = f.WidgetID
	}

	rows := groupRows(entries)
	totalH := 0
	for _, row := range rows {
		totalH += rowHeight(row)
	}
	rendered := make([]string, 0, len(rows))
	used := 0
	for i, row := range rows {
		h := rowHeight(row) * height / max(totalH, 1)
		if i == len(rows)-1 {
			h = height - used
		}
		h = max(h, 3)
		used += h
		rendered = append(rendered, m.viewRow(sec, row, width, h, focusID))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m *Model) viewRow(sec state.Section, row []layout.Entry, width, height int, focusID string) string {
	extent := gridColumns
	for _, e := range row {
		extent = max(extent, e.X+e.Width)
	}
	cells := []string{}
	col := 0
	for _, e := range row {
		if e.X > col {
			cells = append(cells, strings.Repeat(" ", (e.X-col)*width/extent))
			col = e.X
		}
		w := max(e.Width*width/extent, 6)
		cells = append(cells, m.viewSlot(sec, e.WidgetID, w, height, e.WidgetID == focusID))
		col += e.Width
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func (m *Model) viewSlot(sec state.Section, slot string, width, height int, focused bool) string {
	switch slot {
	case state.SlotActions:
		return panel("Actions", m.viewActions(height-3), width, height, focused)
	case state.SlotTerminal:
		return panel("Terminal Output", m.viewTerminal(width-2, height-3), width, height, focused)
	case state.SlotInfo1:
		return panel(infoTitles[sec][0], renderPairs(m.infoRows(sec, 0)), width, height, focused)
	case state.SlotInfo2:
		return panel(infoTitles[sec][1], renderPairs(m.infoRows(sec, 1)), width, height, focused)
	default:
		return panel(slot, "", width, height, focused)
	}
}

func (m *Model) infoRows(sec state.Section, which int) [][2]string {
	target := orPlaceholder(m.session.Target())
	user := placeholder
	if info := m.session.Dashboard().Snapshot(); info.CurrentUser != "" && info.Target == m.session.Target() {
		user = info.CurrentUser
	}
	switch sec {
	case state.SectionSystem:
		if which == 0 {
			return [][2]string{{"Hostname", target}, {"Current user", user}, {"OS", placeholder}}
		}
		return [][2]string{{"CPU", placeholder}, {"Memory", placeholder}, {"Disk", placeholder}}
	case state.SectionNetwork:
		if which == 0 {
			return [][2]string{{"Target", target}, {"Last result", since(m.session.Sink().UpdatedAt())}}
		}
		return [][2]string{{"Sent", placeholder}, {"Received", placeholder}}
	case state.SectionDirectory:
		if which == 0 {
			return [][2]string{{"Domain", placeholder}, {"Controller", placeholder}}
		}
		return [][2]string{{"Events", placeholder}}
	}
	return nil
}

func groupRows(entries []layout.Entry) [][]layout.Entry {
	sorted := make([]layout.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y != sorted[j].Y {
			return sorted[i].Y < sorted[j].Y
		}
		return sorted[i].X < sorted[j].X
	})
	var rows [][]layout.Entry
	for i, e := range sorted {
		if i == 0 || e.Y != sorted[i-1].Y {
			rows = append(rows, nil)
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], e)
	}
	return rows
}

func rowHeight(row []layout.Entry) int {
	h := 1
	for _, e := range row {
		h = max(h, e.Height)
	}
	return h
}

func renderPairs(pairs [][2]string) string {
	lines := table.KeyValues(pairs)
	for i, line := range lines {
		lines[i] = styles.Value.Render(line)
	}
	return strings.Join(lines, "\n")
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func since(t time.Time) string {
	if t.IsZero() {
		return placeholder
	}
	return humanize.Time(t)
}
