// Package dispatch turns catalogue commands into bridge calls and writes
// their outcome to the output sink.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/confirm"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/atomicstack/winadmin/internal/metrics"
	"github.com/atomicstack/winadmin/internal/state"
)

// Policy decides which of several overlapping dispatches owns the sink.
type Policy int

const (
	// PolicyResolved lets whichever dispatch resolves last write the sink.
	PolicyResolved Policy = iota
	// PolicyIssued discards resolutions older than the newest write.
	PolicyIssued
)

func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "resolved":
		return PolicyResolved, nil
	case "issued":
		return PolicyIssued, nil
	}
	return 0, fmt.Errorf("unknown output policy %q", s)
}

func (p Policy) String() string {
	if p == PolicyIssued {
		return "issued"
	}
	return "resolved"
}

// State classifies an Outcome.
type State int

const (
	StateSucceeded State = iota
	StateFailed
	StatePendingConfirmation
	StateDeclined
	StateStale
)

func (s State) String() string {
	switch s {
	case StateSucceeded:
		return metrics.OutcomeSucceeded
	case StateFailed:
		return metrics.OutcomeFailed
	case StatePendingConfirmation:
		return metrics.OutcomePending
	case StateDeclined:
		return metrics.OutcomeDeclined
	case StateStale:
		return metrics.OutcomeStale
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Outcome reports what a dispatch did. Text is the display string; it was
// written to the sink unless State is pending, declined or stale.
type Outcome struct {
	Seq     uint64
	Command command.Command
	State   State
	Text    string
	Pending *confirm.Pending
	Err     error
}

// Options tunes a Dispatcher.
type Options struct {
	Policy    Policy
	Serialize bool
	Metrics   metrics.Recorder
}

// Dispatcher runs commands through the bridge.
type Dispatcher struct {
	bridge  bridge.Bridge
	sink    state.OutputStore
	target  state.TargetStore
	gate    *confirm.Gate
	opts    Options
	seq     atomic.Uint64
	writeMu sync.Mutex

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func New(b bridge.Bridge, sink state.OutputStore, target state.TargetStore, gate *confirm.Gate, opts Options) *Dispatcher {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	return &Dispatcher{
		bridge: b,
		sink:   sink,
		target: target,
		gate:   gate,
		opts:   opts,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Dispatch triggers cmd. Destructive commands only register a pending
// confirmation; everything else calls the bridge exactly once. Dispatching
// SetTarget resubmits the current target.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd command.Command) Outcome {
	if cmd == command.SetTarget {
		return d.SetTarget(ctx, d.target.Current())
	}
	if cmd.Destructive() {
		p := d.gate.Request(cmd)
		d.opts.Metrics.Dispatched(cmd.Name(), metrics.OutcomePending)
		return Outcome{Command: cmd, State: StatePendingConfirmation, Text: p.Prompt, Pending: &p}
	}
	return d.run(ctx, cmd, nil, nil)
}

// ResolveConfirmation settles a pending confirmation. Declining leaves the
// sink untouched; accepting runs the command.
func (d *Dispatcher) ResolveConfirmation(ctx context.Context, id string, accepted bool) (Outcome, error) {
	p, err := d.gate.Resolve(id, accepted)
	if err != nil {
		return Outcome{}, err
	}
	if !accepted {
		d.opts.Metrics.Dispatched(p.Command.Name(), metrics.OutcomeDeclined)
		return Outcome{Command: p.Command, State: StateDeclined}, nil
	}
	return d.run(ctx, p.Command, nil, nil), nil
}

// SetTarget submits value to the bridge. The register only changes when
// the bridge accepts it.
func (d *Dispatcher) SetTarget(ctx context.Context, value string) Outcome {
	events.Target.Submit(value)
	params := map[string]string{command.ParamTarget: value}
	out := d.run(ctx, command.SetTarget, params, func() {
		d.target.Set(value)
		events.Target.Set(value)
	})
	if out.State == StateFailed {
		events.Target.Rejected(value, out.Err)
	}
	return out
}

func (d *Dispatcher) run(ctx context.Context, cmd command.Command, params map[string]string, onSuccess func()) Outcome {
	seq := d.seq.Add(1)
	name := cmd.Name()
	lockKey := d.target.Current()
	if cmd == command.SetTarget {
		lockKey = params[command.ParamTarget]
	}
	events.Dispatch.Begin(seq, name, lockKey)

	if msg := cmd.Spec().InProgress; msg != "" {
		d.write(seq, msg, nil)
	}

	start := time.Now()
	payload, err := d.invoke(ctx, lockKey, name, params)
	elapsed := time.Since(start)
	d.opts.Metrics.Observe(name, elapsed)
	events.Dispatch.Resolve(seq, name, elapsed, err)

	out := Outcome{Seq: seq, Command: cmd, Err: err}
	if err != nil {
		out.State = StateFailed
		out.Text = cmd.FormatError(err)
		onSuccess = nil
	} else {
		out.State = StateSucceeded
		out.Text = cmd.Project(payload, params)
	}
	if !d.write(seq, out.Text, onSuccess) {
		out.State = StateStale
		events.Dispatch.Stale(seq, d.seq.Load(), name)
	}
	d.opts.Metrics.Dispatched(name, out.State.String())
	return out
}

func (d *Dispatcher) invoke(ctx context.Context, key, name string, params map[string]string) (string, error) {
	if d.opts.Serialize {
		mu := d.lockFor(key)
		mu.Lock()
		defer mu.Unlock()
	}
	return d.bridge.Invoke(ctx, name, params)
}

// write publishes text to the sink according to the policy and reports
// whether the write landed. onSuccess runs either way: a stale result still
// reflects what the bridge accepted.
func (d *Dispatcher) write(seq uint64, text string, onSuccess func()) bool {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	landed := true
	if d.opts.Policy == PolicyIssued {
		landed = d.sink.WriteSeq(seq, text)
	} else {
		d.sink.Write(text)
	}
	if onSuccess != nil {
		onSuccess()
	}
	return landed
}

func (d *Dispatcher) lockFor(key string) *sync.Mutex {
	d.locksMu.Lock()
	defer d.locksMu.Unlock()
	mu, ok := d.locks[key]
	if !ok {
		mu = &sync.Mutex{}
		d.locks[key] = mu
	}
	return mu
}

// Policy returns the configured output policy.
func (d *Dispatcher) Policy() Policy { return d.opts.Policy }
