package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the console's key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Home        key.Binding
	End         key.Binding
	Select      key.Binding
	NextSection key.Binding
	PrevSection key.Binding
	ScrollUp    key.Binding
	ScrollDown  key.Binding
	EditTarget  key.Binding
	EditLayout  key.Binding
	ClearFilter key.Binding
	Back        key.Binding
	Quit        key.Binding

	// Confirmation.
	Accept  key.Binding
	Decline key.Binding

	// Layout editing.
	NextPanel key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	MoveUp    key.Binding
	MoveDown  key.Binding
	Wider     key.Binding
	Narrower  key.Binding
	Taller    key.Binding
	Shorter   key.Binding
	Drop      key.Binding
	Save      key.Binding
}

// DefaultKeyMap leaves printable keys free for the action filter.
var DefaultKeyMap = KeyMap{
	Up:          key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
	Home:        key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
	End:         key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
	Select:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
	NextSection: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
	PrevSection: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("S-tab", "prev section")),
	ScrollUp:    key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "scroll output")),
	ScrollDown:  key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "scroll output")),
	EditTarget:  key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("C-t", "target")),
	EditLayout:  key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("C-e", "layout")),
	ClearFilter: key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("C-u", "clear filter")),
	Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:        key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit")),

	Accept:  key.NewBinding(key.WithKeys("y", "Y", "enter"), key.WithHelp("y/enter", "confirm")),
	Decline: key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n/esc", "cancel")),

	NextPanel: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next panel")),
	MoveLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→/↑/↓", "move")),
	MoveRight: key.NewBinding(key.WithKeys("right", "l")),
	MoveUp:    key.NewBinding(key.WithKeys("up", "k")),
	MoveDown:  key.NewBinding(key.WithKeys("down", "j")),
	Wider:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "width")),
	Narrower:  key.NewBinding(key.WithKeys("-")),
	Taller:    key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "height")),
	Shorter:   key.NewBinding(key.WithKeys("[")),
	Drop:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove panel")),
	Save:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
}

func (k KeyMap) browseHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.NextSection, k.EditTarget, k.EditLayout, k.ScrollUp, k.Quit}
}

func (k KeyMap) targetHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "set target")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k KeyMap) confirmHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Decline}
}

func (k KeyMap) layoutHelp() []key.Binding {
	return []key.Binding{k.NextPanel, k.MoveLeft, k.Wider, k.Taller, k.Drop, k.Save, k.Back}
}
