package ui

import (
	"context"
	"reflect"
	"time"

	"github.com/atomicstack/winadmin/internal/backend"
	"github.com/atomicstack/winadmin/internal/confirm"
	"github.com/atomicstack/winadmin/internal/data/dispatcher"
	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/session"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/atomicstack/winadmin/internal/theme"
	"github.com/atomicstack/winadmin/internal/ui/command"
	uistate "github.com/atomicstack/winadmin/internal/ui/state"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type level = uistate.Level

type Mode int

const (
	ModeBrowse Mode = iota
	ModeTarget
	ModeConfirm
	ModeLayout
)

func (m Mode) String() string {
	switch m {
	case ModeTarget:
		return "target"
	case ModeConfirm:
		return "confirm"
	case ModeLayout:
		return "layout"
	default:
		return "browse"
	}
}

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures NewModel.
type Options struct {
	Width      int
	Height     int
	ShowFooter bool
	Verbose    bool
	Watcher    *backend.Watcher
	// Settings are shown as label/value rows in the settings section.
	Settings [][2]string
	// Animate enables the spinner, cursor blink and clock ticks. Tests
	// driving the model through a Harness leave it off.
	Animate bool
	Context context.Context
}

// Model implements the Bubble Tea model for the console.
type Model struct {
	session *session.Session
	bus     *command.Bus
	keys    KeyMap

	levels      map[state.Section]*level
	filterInput textinput.Model
	targetInput textinput.Model
	terminal    viewport.Model
	spinner     spinner.Model
	help        help.Model

	mode        Mode
	pending     *confirm.Pending
	layoutDraft []layout.Entry
	layoutSlot  int

	inflight    int
	requestSeq  int
	errMsg      string
	infoMsg     string
	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool
	animate     bool
	settings    [][2]string

	backend    *backend.Watcher
	dispatcher *dispatcher.Dispatcher

	handlers map[reflect.Type]msgHandler
}

// NewModel initialises the UI around a session.
func NewModel(sess *session.Session, opts Options) *Model {
	m := &Model{
		session:    sess,
		bus:        command.New(opts.Context),
		keys:       DefaultKeyMap,
		levels:     make(map[state.Section]*level),
		terminal:   viewport.New(0, 0),
		help:       help.New(),
		showFooter: opts.ShowFooter,
		verbose:    opts.Verbose,
		animate:    opts.Animate,
		settings:   opts.Settings,
		backend:    opts.Watcher,
		dispatcher: dispatcher.New(sess.Dashboard()),
	}
	for _, sec := range state.Sections() {
		items := uistate.ItemsFor(sec.Commands(), state.QuickActions)
		m.levels[sec] = uistate.NewLevel(sec.String(), sec.Title(), items)
	}
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	m.filterInput = m.newInput("filter> ", "type to filter actions")
	m.targetInput = m.newInput("target> ", "hostname or IP address")
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(*styles.Spinner))
	m.filterInput.Focus()
	m.registerHandlers()
	return m
}

func (m *Model) newInput(prompt, placeholder string) textinput.Model {
	in := textinput.New()
	in.Prompt = prompt
	in.Placeholder = placeholder
	in.PromptStyle = *styles.FilterPrompt
	in.TextStyle = *styles.Filter
	in.PlaceholderStyle = *styles.FilterPlaceholder
	in.Cursor.Style = *styles.Cursor
	if !m.animate {
		in.Cursor.SetMode(cursor.CursorStatic)
	}
	return in
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.backend != nil {
		cmds = append(cmds, waitForBackendEvent(m.backend))
	}
	if m.animate {
		cmds = append(cmds, textinput.Blink, clockTick())
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, m.updateInputs(msg)
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(command.Result{}):    m.handleResultMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(backendDoneMsg{}):    m.handleBackendDoneMsg,
		reflect.TypeOf(spinner.TickMsg{}):   m.handleSpinnerTick,
		reflect.TypeOf(clockMsg{}):          m.handleClockMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// updateInputs forwards cursor blink and similar messages to the focused input.
func (m *Model) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case ModeTarget:
		m.targetInput, cmd = m.targetInput.Update(msg)
	case ModeBrowse:
		m.filterInput, cmd = m.filterInput.Update(msg)
	}
	return cmd
}

func (m *Model) setMode(mode Mode) {
	if m.mode == mode {
		return
	}
	events.UI.Mode(m.mode.String(), mode.String())
	m.mode = mode
}

// Mode reports the current interaction mode.
func (m *Model) Mode() Mode { return m.mode }

// Session exposes the session the model renders.
func (m *Model) Session() *session.Session { return m.session }

func (m *Model) currentLevel() *level {
	return m.levels[m.session.Section()]
}

type clockMsg time.Time

func clockTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m *Model) handleClockMsg(tea.Msg) tea.Cmd {
	if !m.animate {
		return nil
	}
	return clockTick()
}

func (m *Model) handleSpinnerTick(msg tea.Msg) tea.Cmd {
	if m.inflight == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return cmd
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = size.Width
	}
	if !m.fixedHeight {
		m.height = size.Height
	}
	m.help.Width = m.width
	return nil
}
