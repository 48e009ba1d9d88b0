package session

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/layout"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/atomicstack/winadmin/internal/testutil"
)

func TestSwitchSectionKeepsTargetAndOutput(t *testing.T) {
	b := testutil.NewFakeBridge()
	b.Respond("get_ipconfig", "Windows IP Configuration")
	s := New(b, Options{})
	s.SetTarget(context.Background(), "ws-042")
	s.Dispatch(context.Background(), command.IPConfig)

	for _, sec := range state.Sections() {
		s.SwitchSection(sec)
		if s.Target() != "ws-042" {
			t.Fatalf("target changed after switching to %s", sec)
		}
		if s.Output() != "Windows IP Configuration" {
			t.Fatalf("output changed after switching to %s", sec)
		}
	}
	if len(b.Calls()) != 2 {
		t.Fatalf("switching sections should not call the bridge")
	}
}

func TestCommandsFollowActiveSection(t *testing.T) {
	s := New(testutil.NewFakeBridge(), Options{})
	if got := s.Commands(); !reflect.DeepEqual(got, state.QuickActions) {
		t.Fatalf("dashboard should expose quick actions only, got %v", got)
	}
	s.SwitchSection(state.SectionDirectory)
	want := []command.Command{command.OpenADUC, command.Ping, command.Restart, command.Shutdown}
	if got := s.Commands(); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestLayoutsAreIndependentPerSection(t *testing.T) {
	s := New(testutil.NewFakeBridge(), Options{})
	entries := []layout.Entry{{WidgetID: state.SlotTerminal, X: 1, Y: 1, Width: 4, Height: 4, MinWidth: 3, MinHeight: 3}}
	if err := s.SetLayout(context.Background(), state.SectionNetwork, entries); err != nil {
		t.Fatalf("set layout: %v", err)
	}
	if got := s.Layout(state.SectionNetwork); !reflect.DeepEqual(got, entries) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got := s.Layout(state.SectionSystem); !reflect.DeepEqual(got, layout.Defaults(state.SectionSystem)) {
		t.Fatalf("system layout changed: %+v", got)
	}
	err := s.SetLayout(context.Background(), state.SectionSystem, []layout.Entry{{WidgetID: "bogus"}})
	if !errors.Is(err, layout.ErrInvalidLayout) {
		t.Fatalf("expected ErrInvalidLayout, got %v", err)
	}
}

func TestSessionConfirmationFlow(t *testing.T) {
	b := testutil.NewFakeBridge()
	b.Respond("issue_restart", "restart scheduled")
	s := New(b, Options{Dispatch: dispatch.Options{Policy: dispatch.PolicyIssued}})
	out := s.Dispatch(context.Background(), command.Restart)
	if out.Pending == nil {
		t.Fatalf("expected pending confirmation")
	}
	res, err := s.ResolveConfirmation(context.Background(), out.Pending.ID, true)
	if err != nil || res.State != dispatch.StateSucceeded {
		t.Fatalf("unexpected result %+v, %v", res, err)
	}
	if s.Output() != "restart scheduled" {
		t.Fatalf("unexpected output %q", s.Output())
	}
	if s.Policy() != dispatch.PolicyIssued {
		t.Fatalf("unexpected policy %v", s.Policy())
	}
}
