package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/winadmin/internal/state"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	defaultWidth  = 100
	defaultHeight = 30
	sidebarWidth  = 20
)

// View renders the console: header, sidebar, the active section and the
// prompt/footer lines.
func (m *Model) View() string {
	width, height := m.size()

	header := m.viewHeader(width)
	bottom := m.viewBottom(width)
	bodyHeight := height - lipgloss.Height(header) - lipgloss.Height(bottom)
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	sidebar := m.viewSidebar(bodyHeight)
	mainWidth := width - lipgloss.Width(sidebar) - 1
	if mainWidth < 20 {
		mainWidth = 20
	}
	main := m.viewSection(mainWidth, bodyHeight)
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", main)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, bottom)
}

func (m *Model) size() (int, int) {
	width, height := m.width, m.height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

func (m *Model) viewHeader(width int) string {
	sec := m.session.Section()
	target := m.session.Target()
	if target == "" {
		target = "none"
	}
	line := styles.Header.Render("WinAdmin") + "  " + sec.Title() +
		"  " + styles.Label.Render("target:") + " " + styles.Target.Render(target)
	if m.inflight > 0 {
		line += "  " + m.spinner.View()
	}
	return clip(line, width)
}

func (m *Model) viewSidebar(height int) string {
	active := m.session.Section()
	lines := make([]string, 0, height)
	for _, sec := range state.Sections() {
		label := fmt.Sprintf(" %-*s", sidebarWidth-3, sec.Title())
		if sec == active {
			lines = append(lines, styles.SidebarActive.Render(label))
			continue
		}
		lines = append(lines, styles.SidebarItem.Render(label))
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return styles.Sidebar.Render(strings.Join(lines[:height], "\n"))
}

func (m *Model) viewSection(width, height int) string {
	switch sec := m.session.Section(); {
	case sec == state.SectionDashboard:
		return m.viewDashboard(width, height)
	case sec == state.SectionInstall:
		return m.viewInstall(width, height)
	case sec == state.SectionSettings:
		return m.viewSettings(width, height)
	case sec.HasGrid():
		return m.viewGrid(sec, width, height)
	default:
		return ""
	}
}

func (m *Model) viewBottom(width int) string {
	lines := []string{}
	if m.errMsg != "" {
		lines = append(lines, clip(styles.Error.Render(m.errMsg), width))
	} else if m.infoMsg != "" {
		lines = append(lines, clip(styles.Info.Render(m.infoMsg), width))
	}
	switch m.mode {
	case ModeTarget:
		lines = append(lines, m.targetInput.View())
	case ModeConfirm:
		prompt := ""
		if m.pending != nil {
			prompt = m.pending.Prompt
		}
		lines = append(lines, clip(styles.Confirm.Render(prompt+" [y/N]"), width))
	case ModeLayout:
		lines = append(lines, clip(styles.Info.Render(m.layoutHint()), width))
	default:
		lines = append(lines, m.filterInput.View())
	}
	if m.showFooter {
		lines = append(lines, clip(styles.Footer.Render(m.help.ShortHelpView(m.helpBindings())), width))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) helpBindings() []key.Binding {
	switch m.mode {
	case ModeTarget:
		return m.keys.targetHelp()
	case ModeConfirm:
		return m.keys.confirmHelp()
	case ModeLayout:
		return m.keys.layoutHelp()
	default:
		return m.keys.browseHelp()
	}
}

func (m *Model) layoutHint() string {
	entry := m.focusedEntry()
	if entry == nil {
		return "layout: no panels left; enter saves, esc cancels"
	}
	return fmt.Sprintf("layout: %s x=%d y=%d w=%d h=%d", entry.WidgetID, entry.X, entry.Y, entry.Width, entry.Height)
}

// clip truncates a rendered line to width visible columns.
func clip(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	return truncate.StringWithTail(s, uint(width), "…")
}
