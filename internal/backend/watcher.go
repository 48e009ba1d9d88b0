package backend

import (
	"context"
	"sync"
	"time"

	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/state"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindCurrentUser Kind = iota
)

// UserSnapshot is the result of one current-user poll.
type UserSnapshot struct {
	Target string
	User   string
	At     time.Time
}

// Event conveys updated data or an error from a backend poll.
type Event struct {
	Kind Kind
	Data interface{}
	Err  error
}

// maxSkippedPolls caps how many intervals an unreachable target is left alone.
const maxSkippedPolls = 8

// Watcher polls the bridge at a fixed interval and publishes events. It
// calls the bridge directly, bypassing the dispatcher and the output sink.
type Watcher struct {
	bridge   bridge.Bridge
	target   state.TargetStore
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a backend watcher that polls every interval.
func NewWatcher(b bridge.Bridge, target state.TargetStore, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		bridge:   b,
		target:   target,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 16),
	}

	w.startUserPoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. Pollers exit after their current fetch completes;
// use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until all poller goroutines have exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) startUserPoller() {
	bo := newBackoff(maxSkippedPolls)
	w.wg.Add(1)
	go w.poll(KindCurrentUser, func(ctx context.Context) (interface{}, error) {
		target := w.target.Current()
		snap := UserSnapshot{Target: target}
		if target == "" {
			snap.At = time.Now()
			return snap, nil
		}
		if !bo.allow(target) {
			return nil, nil
		}
		user, err := w.bridge.Invoke(ctx, command.CurrentUser.Name(), nil)
		bo.record(target, err)
		snap.User = user
		snap.At = time.Now()
		return snap, err
	})
}

func (w *Watcher) poll(kind Kind, fetch func(context.Context) (interface{}, error)) {
	defer w.wg.Done()

	emit := func() bool {
		data, err := fetch(w.ctx)
		if data == nil && err == nil {
			return true
		}
		evt := Event{Kind: kind, Data: data, Err: err}
		select {
		case <-w.ctx.Done():
			return false
		case w.events <- evt:
			return true
		}
	}

	if !emit() {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			if !emit() {
				return
			}
		}
	}
}
