// Package layout keeps the per-section panel arrangement. Each section owns
// an independent ordered collection of entries; replacing one section's
// collection never touches another's.
package layout

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/state"
)

// ErrInvalidLayout is returned for entries that break the slot invariant.
var ErrInvalidLayout = errors.New("invalid layout")

// Entry positions one panel on the section grid.
type Entry struct {
	WidgetID  string `yaml:"id" cbor:"id"`
	X         int    `yaml:"x" cbor:"x"`
	Y         int    `yaml:"y" cbor:"y"`
	Width     int    `yaml:"w" cbor:"w"`
	Height    int    `yaml:"h" cbor:"h"`
	MinWidth  int    `yaml:"min_w" cbor:"min_w"`
	MinHeight int    `yaml:"min_h" cbor:"min_h"`
}

// Defaults returns the starting geometry for a section.
func Defaults(s state.Section) []Entry {
	if !s.HasGrid() {
		return nil
	}
	return []Entry{
		{WidgetID: state.SlotActions, X: 0, Y: 0, Width: 3, Height: 13, MinWidth: 3, MinHeight: 4},
		{WidgetID: state.SlotTerminal, X: 6, Y: 0, Width: 9, Height: 13, MinWidth: 3, MinHeight: 4},
		{WidgetID: state.SlotInfo1, X: 0, Y: 8, Width: 6, Height: 8, MinWidth: 3, MinHeight: 3},
		{WidgetID: state.SlotInfo2, X: 6, Y: 8, Width: 6, Height: 8, MinWidth: 3, MinHeight: 3},
	}
}

// Validate checks entries against the section's slot set: identifiers must
// be unique and belong to the section. Omitted slots are allowed.
func Validate(s state.Section, entries []Entry) error {
	allowed := make(map[string]bool)
	for _, slot := range s.Slots() {
		allowed[slot] = true
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if !allowed[e.WidgetID] {
			return fmt.Errorf("%w: section %s has no slot %q", ErrInvalidLayout, s, e.WidgetID)
		}
		if seen[e.WidgetID] {
			return fmt.Errorf("%w: duplicate slot %q in section %s", ErrInvalidLayout, e.WidgetID, s)
		}
		seen[e.WidgetID] = true
	}
	return nil
}

// Persister saves and restores layouts across restarts.
type Persister interface {
	Load(ctx context.Context) (map[state.Section][]Entry, error)
	Save(ctx context.Context, s state.Section, entries []Entry) error
	Name() string
	Close() error
}

// Store holds the layouts for every section.
type Store struct {
	mu        sync.RWMutex
	layouts   map[state.Section][]Entry
	persister Persister
}

// NewStore seeds every section with its defaults. A nil persister keeps
// layouts in memory only.
func NewStore(p Persister) *Store {
	s := &Store{layouts: make(map[state.Section][]Entry), persister: p}
	for _, sec := range state.Sections() {
		s.layouts[sec] = Defaults(sec)
	}
	return s
}

// Restore overlays persisted layouts onto the defaults. Sections whose
// persisted entries are invalid keep their defaults.
func (s *Store) Restore(ctx context.Context) error {
	if s.persister == nil {
		return nil
	}
	loaded, err := s.persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load layouts from %s: %w", s.persister.Name(), err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	applied := 0
	for sec, entries := range loaded {
		if err := Validate(sec, entries); err != nil {
			events.Layout.Invalid(sec.String(), err)
			logging.Error(err)
			continue
		}
		s.layouts[sec] = clone(entries)
		applied++
	}
	events.Layout.Loaded(s.persister.Name(), applied)
	return nil
}

// Get returns a copy of the section's layout.
func (s *Store) Get(sec state.Section) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.layouts[sec])
}

// Set replaces the section's layout with entries. Persistence failures are
// logged; the in-memory layout is authoritative for the running session.
func (s *Store) Set(ctx context.Context, sec state.Section, entries []Entry) error {
	if err := Validate(sec, entries); err != nil {
		events.Layout.Invalid(sec.String(), err)
		return err
	}
	s.mu.Lock()
	s.layouts[sec] = clone(entries)
	s.mu.Unlock()
	events.Layout.Set(sec.String(), len(entries))
	if s.persister != nil {
		if err := s.persister.Save(ctx, sec, entries); err != nil {
			logging.Error(fmt.Errorf("persist layout %s: %w", sec, err))
		} else {
			events.Layout.Persisted(sec.String(), s.persister.Name())
		}
	}
	return nil
}

// Close releases the persister.
func (s *Store) Close() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Close()
}

func clone(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	dup := make([]Entry, len(entries))
	copy(dup, entries)
	return dup
}
