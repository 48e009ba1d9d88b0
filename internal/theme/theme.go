package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header            *lipgloss.Style
	Target            *lipgloss.Style
	Sidebar           *lipgloss.Style
	SidebarItem       *lipgloss.Style
	SidebarActive     *lipgloss.Style
	Panel             *lipgloss.Style
	PanelFocused      *lipgloss.Style
	PanelTitle        *lipgloss.Style
	Item              *lipgloss.Style
	ItemIndicator     *lipgloss.Style
	SelectedItem      *lipgloss.Style
	QuickItem         *lipgloss.Style
	Destructive       *lipgloss.Style
	Output            *lipgloss.Style
	Label             *lipgloss.Style
	Value             *lipgloss.Style
	Error             *lipgloss.Style
	Info              *lipgloss.Style
	Footer            *lipgloss.Style
	Filter            *lipgloss.Style
	FilterPrompt      *lipgloss.Style
	FilterPlaceholder *lipgloss.Style
	Cursor            *lipgloss.Style
	Confirm           *lipgloss.Style
	Spinner           *lipgloss.Style
}

// accent is the orange used across the console chrome.
var accent = lipgloss.Color("208")

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(accent).Bold(true),
	),
	Target: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	Sidebar: ptr(
		lipgloss.NewStyle().PaddingRight(1).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(lipgloss.Color("238")),
	),
	SidebarItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	SidebarActive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(accent).Bold(true),
	),
	Panel: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")),
	),
	PanelFocused: ptr(
		lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	QuickItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("110")),
	),
	Destructive: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	),
	Output: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	Value: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Filter: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	FilterPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	FilterPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	Cursor: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(accent),
	),
	Confirm: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("124")).Bold(true).Padding(0, 1),
	),
	Spinner: ptr(
		lipgloss.NewStyle().Foreground(accent),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
