package backend

import (
	"errors"
	"testing"
)

func TestBackoffSkipsAfterRepeatedFailures(t *testing.T) {
	b := newBackoff(3)
	fail := errors.New("unreachable")
	var pattern []bool
	for i := 0; i < 10; i++ {
		ok := b.allow("ws-042")
		pattern = append(pattern, ok)
		if ok {
			b.record("ws-042", fail)
		}
	}
	// failures 1..: skip 0, 1, 3, 3, ...
	want := []bool{true, true, false, true, false, false, false, true, false, false}
	for i := range want {
		if pattern[i] != want[i] {
			t.Fatalf("poll %d: allowed=%v, want %v (pattern %v)", i, pattern[i], want[i], pattern)
		}
	}
}

func TestBackoffResetsOnSuccessAndTargetChange(t *testing.T) {
	b := newBackoff(8)
	fail := errors.New("unreachable")
	for i := 0; i < 3; i++ {
		b.allow("ws-042")
		b.record("ws-042", fail)
	}
	if b.allow("ws-042") {
		t.Fatalf("expected a skipped poll after three failures")
	}
	if !b.allow("ws-043") {
		t.Fatalf("a new target should be polled immediately")
	}
	b.record("ws-043", fail)
	b.record("ws-043", nil)
	if !b.allow("ws-043") {
		t.Fatalf("success should clear the backoff")
	}
}

func TestBackoffIgnoresResultsForOldTarget(t *testing.T) {
	b := newBackoff(8)
	b.allow("ws-042")
	b.allow("ws-043")
	b.record("ws-042", errors.New("late failure"))
	if !b.allow("ws-043") {
		t.Fatalf("a stale result should not delay the current target")
	}
}
