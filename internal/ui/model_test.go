package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/winadmin/internal/backend"
	"github.com/atomicstack/winadmin/internal/session"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/atomicstack/winadmin/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
)

func newTestHarness(t *testing.T, b *testutil.FakeBridge, opts Options) (*Harness, *session.Session) {
	t.Helper()
	sess := session.New(b, session.Options{})
	if opts.Width == 0 {
		opts.Width = 120
	}
	if opts.Height == 0 {
		opts.Height = 40
	}
	return NewHarness(NewModel(sess, opts)), sess
}

func TestSubmitTargetFromPrompt(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, sess := newTestHarness(t, b, Options{})

	h.Press(tea.KeyCtrlT)
	if h.Model().Mode() != ModeTarget {
		t.Fatalf("expected target mode, got %s", h.Model().Mode())
	}
	h.Type("ws-042")
	h.Press(tea.KeyEnter)

	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode after submit, got %s", h.Model().Mode())
	}
	if sess.Target() != "ws-042" {
		t.Fatalf("target = %q", sess.Target())
	}
	if sess.Output() != "Target set: ws-042" {
		t.Fatalf("output = %q", sess.Output())
	}
	calls := b.Calls()
	if len(calls) != 1 || calls[0].Name != "set_target" || calls[0].Params["target"] != "ws-042" {
		t.Fatalf("unexpected calls %+v", calls)
	}
}

func TestTargetValueForwardedAsTyped(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, _ := newTestHarness(t, b, Options{})

	h.Press(tea.KeyCtrlT)
	h.Type(" ws-042 ")
	h.Press(tea.KeyEnter)

	calls := b.Calls()
	if len(calls) != 1 || calls[0].Params["target"] != " ws-042 " {
		t.Fatalf("bridge should receive the value unchanged, got %+v", calls)
	}
}

func TestRejectedTargetKeepsPrevious(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, sess := newTestHarness(t, b, Options{})
	b.Fail("set_target", errors.New("host not found"))

	h.Press(tea.KeyCtrlT)
	h.Type("bogus")
	h.Press(tea.KeyEnter)

	if sess.Target() != "" {
		t.Fatalf("target should stay empty, got %q", sess.Target())
	}
	if sess.Output() != "Failed to set target: host not found" {
		t.Fatalf("output = %q", sess.Output())
	}
}

func TestEscCancelsTargetEntry(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, _ := newTestHarness(t, b, Options{})
	h.Press(tea.KeyCtrlT)
	h.Type("ws")
	h.Press(tea.KeyEsc)
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode, got %s", h.Model().Mode())
	}
	if len(b.Calls()) != 0 {
		t.Fatalf("cancelled entry should not reach the bridge")
	}
}

func TestRunSelectedAction(t *testing.T) {
	b := testutil.NewFakeBridge()
	b.Respond("ping", "Reply from 192.168.1.50: time=2ms")
	h, sess := newTestHarness(t, b, Options{})

	h.Press(tea.KeyTab)
	h.Press(tea.KeyTab)
	if sess.Section() != state.SectionNetwork {
		t.Fatalf("expected network section, got %s", sess.Section())
	}
	h.Press(tea.KeyEnter)

	if got := b.CallCount("ping"); got != 1 {
		t.Fatalf("ping called %d times", got)
	}
	if sess.Output() != "Reply from 192.168.1.50: time=2ms" {
		t.Fatalf("output = %q", sess.Output())
	}
	if h.Model().inflight != 0 {
		t.Fatalf("inflight should drain, got %d", h.Model().inflight)
	}
}

func TestFilterSelectsMatchingAction(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, sess := newTestHarness(t, b, Options{})
	h.Press(tea.KeyTab)

	h.Type("services")
	lvl := h.Model().currentLevel()
	item, ok := lvl.Current()
	if !ok || item.ID != "open_services" {
		t.Fatalf("expected open_services under cursor, got %+v", item)
	}
	h.Press(tea.KeyEnter)
	if sess.Output() != "Opened Services" {
		t.Fatalf("output = %q", sess.Output())
	}

	h.Press(tea.KeyEsc)
	if lvl.Filter != "" || len(lvl.Items) != len(lvl.Full) {
		t.Fatalf("esc should clear the filter, got %q with %d items", lvl.Filter, len(lvl.Items))
	}
}

func TestFilterIsPerSection(t *testing.T) {
	h, _ := newTestHarness(t, testutil.NewFakeBridge(), Options{})
	h.Press(tea.KeyTab)
	h.Type("dns")
	h.Press(tea.KeyTab)
	if h.Model().filterInput.Value() != "" {
		t.Fatalf("network filter should start empty, got %q", h.Model().filterInput.Value())
	}
	h.Press(tea.KeyShiftTab)
	if h.Model().filterInput.Value() != "dns" {
		t.Fatalf("system filter should be restored, got %q", h.Model().filterInput.Value())
	}
}

func TestDeclineShutdownSkipsBridge(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, sess := newTestHarness(t, b, Options{})
	h.Press(tea.KeyDown)
	h.Press(tea.KeyDown)
	h.Press(tea.KeyEnter)

	if h.Model().Mode() != ModeConfirm {
		t.Fatalf("expected confirm mode, got %s", h.Model().Mode())
	}
	if !strings.Contains(h.View(), "Are you sure you want to SHUTDOWN the remote machine?") {
		t.Fatalf("view should show the shutdown prompt:\n%s", h.View())
	}
	h.Type("n")

	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode, got %s", h.Model().Mode())
	}
	if b.CallCount("issue_shutdown") != 0 {
		t.Fatalf("declined shutdown reached the bridge")
	}
	if sess.Output() != "" {
		t.Fatalf("declined shutdown should leave the sink untouched, got %q", sess.Output())
	}
}

func TestAcceptRestartInvokesBridgeOnce(t *testing.T) {
	b := testutil.NewFakeBridge()
	b.Respond("issue_restart", "restart scheduled")
	h, sess := newTestHarness(t, b, Options{})
	h.Press(tea.KeyDown)
	h.Press(tea.KeyEnter)
	h.Type("y")

	if got := b.CallCount("issue_restart"); got != 1 {
		t.Fatalf("restart called %d times", got)
	}
	if sess.Output() != "restart scheduled" {
		t.Fatalf("output = %q", sess.Output())
	}
	if h.Model().pending != nil {
		t.Fatalf("pending confirmation should be cleared")
	}
}

func TestEditLayoutAndSave(t *testing.T) {
	h, sess := newTestHarness(t, testutil.NewFakeBridge(), Options{})
	h.Press(tea.KeyTab)
	h.Press(tea.KeyCtrlE)
	if h.Model().Mode() != ModeLayout {
		t.Fatalf("expected layout mode, got %s", h.Model().Mode())
	}

	h.Type("x")
	h.Type("h")
	h.Type("-")
	h.Press(tea.KeyEnter)

	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("expected browse mode after save, got %s", h.Model().Mode())
	}
	got := sess.Layout(state.SectionSystem)
	if len(got) != 3 {
		t.Fatalf("expected 3 panels after dropping one, got %d", len(got))
	}
	if got[0].WidgetID != state.SlotTerminal || got[0].X != 5 || got[0].Width != 8 {
		t.Fatalf("unexpected terminal geometry %+v", got[0])
	}
	if len(sess.Layout(state.SectionNetwork)) != 4 {
		t.Fatalf("network layout should be untouched")
	}
}

func TestEscDiscardsLayoutDraft(t *testing.T) {
	h, sess := newTestHarness(t, testutil.NewFakeBridge(), Options{})
	h.Press(tea.KeyTab)
	h.Press(tea.KeyCtrlE)
	h.Type("x")
	h.Press(tea.KeyEsc)
	if len(sess.Layout(state.SectionSystem)) != 4 {
		t.Fatalf("cancelled edit should keep the stored layout")
	}
}

func TestLayoutEditNeedsGridSection(t *testing.T) {
	h, _ := newTestHarness(t, testutil.NewFakeBridge(), Options{})
	h.Press(tea.KeyCtrlE)
	if h.Model().Mode() != ModeBrowse {
		t.Fatalf("dashboard has no layout, got mode %s", h.Model().Mode())
	}
}

func TestBackendEventUpdatesDashboard(t *testing.T) {
	b := testutil.NewFakeBridge()
	h, sess := newTestHarness(t, b, Options{})
	h.Press(tea.KeyCtrlT)
	h.Type("ws-042")
	h.Press(tea.KeyEnter)

	h.Send(backendEventMsg{event: backend.Event{
		Kind: backend.KindCurrentUser,
		Data: backend.UserSnapshot{Target: "ws-042", User: "CORP\\alice\r\n", At: time.Now()},
	}})

	if got := sess.Dashboard().Snapshot().CurrentUser; got != `CORP\alice` {
		t.Fatalf("current user = %q", got)
	}
	if !strings.Contains(h.View(), `CORP\alice`) {
		t.Fatalf("dashboard should show the current user:\n%s", h.View())
	}
}

func TestQuitKey(t *testing.T) {
	h, _ := newTestHarness(t, testutil.NewFakeBridge(), Options{})
	h.Press(tea.KeyCtrlC)
	if !h.Quit() {
		t.Fatalf("ctrl+c should quit")
	}
}
