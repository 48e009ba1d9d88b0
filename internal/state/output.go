package state

import (
	"sync"
	"time"
)

// InitialOutput is shown before any command has reported.
const InitialOutput = "Ready"

// OutputStore is the single-slot terminal output sink. Every write replaces
// the previous value; nothing is buffered.
type OutputStore interface {
	Read() string
	Write(string)
	// WriteSeq writes text only when seq is not older than the last
	// sequenced write. It reports whether the write happened.
	WriteSeq(seq uint64, text string) bool
	UpdatedAt() time.Time
}

type outputStore struct {
	mu      sync.Mutex
	text    string
	lastSeq uint64
	updated time.Time
	now     func() time.Time
}

func NewOutputStore() OutputStore {
	return &outputStore{text: InitialOutput, now: time.Now}
}

func (s *outputStore) Read() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

func (s *outputStore) Write(text string) {
	s.mu.Lock()
	s.text = text
	s.updated = s.now()
	s.mu.Unlock()
}

func (s *outputStore) WriteSeq(seq uint64, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq < s.lastSeq {
		return false
	}
	s.lastSeq = seq
	s.text = text
	s.updated = s.now()
	return true
}

func (s *outputStore) UpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updated
}
