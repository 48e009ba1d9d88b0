package state

import (
	"testing"

	"github.com/atomicstack/winadmin/internal/command"
)

func newTestLevel(labels ...string) *Level {
	items := make([]Item, len(labels))
	for i, label := range labels {
		items[i] = Item{ID: label, Label: label}
	}
	return NewLevel("test", "Test", items)
}

func TestMoveCursorBounds(t *testing.T) {
	l := newTestLevel("a", "b", "c")
	if l.MoveCursorUp() {
		t.Fatalf("expected no movement above the first item")
	}
	if !l.MoveCursorDown() || l.Cursor != 1 {
		t.Fatalf("expected cursor 1, got %d", l.Cursor)
	}
	if !l.MoveCursorEnd() || l.Cursor != 2 {
		t.Fatalf("expected cursor 2, got %d", l.Cursor)
	}
	if l.MoveCursorDown() {
		t.Fatalf("expected no movement past the last item")
	}
	if !l.MoveCursorHome() || l.Cursor != 0 {
		t.Fatalf("expected cursor 0, got %d", l.Cursor)
	}

	empty := newTestLevel()
	empty.Cursor = 5
	if empty.MoveCursorEnd() || empty.Cursor != 0 {
		t.Fatalf("expected empty level to reset cursor, got %d", empty.Cursor)
	}
}

func TestEnsureCursorVisible(t *testing.T) {
	l := newTestLevel("a", "b", "c", "d", "e")
	l.Cursor = 4
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 3 {
		t.Fatalf("expected offset 3, got %d", l.ViewportOffset)
	}
	l.Cursor = 1
	l.EnsureCursorVisible(2)
	if l.ViewportOffset != 1 {
		t.Fatalf("expected offset 1, got %d", l.ViewportOffset)
	}
	l.EnsureCursorVisible(0)
	if l.ViewportOffset != 0 {
		t.Fatalf("expected offset reset, got %d", l.ViewportOffset)
	}
}

func TestItemsForAppendsQuickActions(t *testing.T) {
	items := ItemsFor([]command.Command{command.OpenADUC}, []command.Command{command.Ping})
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Label != "Active Directory" || items[0].Quick {
		t.Fatalf("unexpected first item %+v", items[0])
	}
	if items[1].Command != command.Ping || !items[1].Quick {
		t.Fatalf("unexpected quick item %+v", items[1])
	}
}
