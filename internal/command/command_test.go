package command

import (
	"errors"
	"testing"
)

func TestCatalogueNamesAreUniqueAndParse(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range All() {
		name := c.Name()
		if name == "" {
			t.Fatalf("command %d has no name", int(c))
		}
		if seen[name] {
			t.Fatalf("duplicate command name %q", name)
		}
		seen[name] = true
		parsed, err := Parse(name)
		if err != nil {
			t.Fatalf("parse %q: %v", name, err)
		}
		if parsed != c {
			t.Fatalf("parse %q returned %v", name, parsed)
		}
	}
	if len(seen) != 19 {
		t.Fatalf("expected 19 catalogue entries, got %d", len(seen))
	}
}

func TestParseRejectsUnknownName(t *testing.T) {
	_, err := Parse("format_c")
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
}

func TestOnlyRestartAndShutdownAreDestructive(t *testing.T) {
	for _, c := range All() {
		want := c == Restart || c == Shutdown
		if c.Destructive() != want {
			t.Fatalf("%s destructive=%v, want %v", c, c.Destructive(), want)
		}
		if want && c.Spec().Prompt == "" {
			t.Fatalf("%s is destructive but has no prompt", c)
		}
	}
}

func TestProjection(t *testing.T) {
	cases := []struct {
		cmd     Command
		payload string
		params  map[string]string
		want    string
	}{
		{Ping, "Reply from 192.168.1.50: time=2ms", nil, "Reply from 192.168.1.50: time=2ms"},
		{IPConfig, "Windows IP Configuration\n", nil, "Windows IP Configuration\n"},
		{CurrentUser, `CORP\alice`, nil, `Current user: CORP\alice`},
		{OpenServices, "", nil, "Opened Services"},
		{SetTarget, "", map[string]string{ParamTarget: "ws-042"}, "Target set: ws-042"},
	}
	for _, tc := range cases {
		if got := tc.cmd.Project(tc.payload, tc.params); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.cmd, got, tc.want)
		}
	}
}

func TestFormatError(t *testing.T) {
	err := errors.New("timeout")
	cases := map[Command]string{
		IPConfig:        "Error: timeout",
		CurrentUser:     "Error: timeout",
		Ping:            "Ping error: timeout",
		Restart:         "Restart error: timeout",
		Shutdown:        "Shutdown error: timeout",
		SetTarget:       "Failed to set target: timeout",
		OpenUsersGroups: "Error Opening Users & Groups: timeout",
	}
	for c, want := range cases {
		if got := c.FormatError(err); got != want {
			t.Fatalf("%s: got %q, want %q", c, got, want)
		}
	}
}

func TestSpecPanicsOutsideCatalogue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for out-of-range command")
		}
	}()
	_ = Command(99).Spec()
}
