package bridge

import (
	"sync"
	"time"

	"github.com/atomicstack/winadmin/internal/logging/events"
)

// tracker kills consoles still running after their timeout and everything
// outstanding on shutdown.
type tracker struct {
	mu        sync.Mutex
	processes map[int]Process
	timeout   time.Duration
	afterFunc func(time.Duration, func())
}

func newTracker(timeout time.Duration) *tracker {
	return &tracker{
		processes: make(map[int]Process),
		timeout:   timeout,
		afterFunc: func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

func (t *tracker) add(p Process) {
	pid := p.Pid()
	t.mu.Lock()
	t.processes[pid] = p
	t.mu.Unlock()
	if t.timeout > 0 {
		t.afterFunc(t.timeout, func() { t.reap(pid) })
	}
}

func (t *tracker) reap(pid int) {
	t.mu.Lock()
	p, ok := t.processes[pid]
	delete(t.processes, pid)
	t.mu.Unlock()
	if !ok {
		return
	}
	if p.Exited() {
		events.Bridge.Reap(pid, false)
		return
	}
	_ = p.Kill()
	events.Bridge.Reap(pid, true)
}

func (t *tracker) killAll() {
	t.mu.Lock()
	procs := t.processes
	t.processes = make(map[int]Process)
	t.mu.Unlock()
	for pid, p := range procs {
		_ = p.Kill()
		events.Bridge.Reap(pid, true)
	}
}

func (t *tracker) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.processes)
}
