package backend

import "sync"

// backoff spaces out polls of a target that keeps failing. After n
// consecutive failures the next 2^(n-1)-1 polls are skipped, capped at
// maxSkip. A success or a change of target starts over.
type backoff struct {
	maxSkip int

	mu       sync.Mutex
	target   string
	failures int
	skip     int
}

func newBackoff(maxSkip int) *backoff {
	if maxSkip < 0 {
		maxSkip = 0
	}
	return &backoff{maxSkip: maxSkip}
}

// allow reports whether target may be polled now.
func (b *backoff) allow(target string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if target != b.target {
		b.target = target
		b.failures = 0
		b.skip = 0
	}
	if b.skip > 0 {
		b.skip--
		return false
	}
	return true
}

// record feeds the result of a poll of target back into the schedule.
func (b *backoff) record(target string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if target != b.target {
		return
	}
	if err == nil {
		b.failures = 0
		b.skip = 0
		return
	}
	b.failures++
	skip := b.maxSkip
	if b.failures <= 16 {
		skip = min(1<<(b.failures-1)-1, b.maxSkip)
	}
	b.skip = skip
}
