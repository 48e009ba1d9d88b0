// Package testutil provides a scripted bridge for exercising the console
// without a Windows host.
package testutil

import (
	"context"
	"sync"
)

// Call records one bridge invocation.
type Call struct {
	Name   string
	Params map[string]string
}

type response struct {
	output string
	err    error
}

// Gate holds one invocation open until the test resolves it.
type Gate struct {
	started chan struct{}
	release chan response
}

// Started is closed once the held invocation has reached the bridge.
func (g *Gate) Started() <-chan struct{} { return g.started }

// Resolve lets the held invocation return.
func (g *Gate) Resolve(output string, err error) {
	g.release <- response{output: output, err: err}
}

// FakeBridge answers invocations from a script and records every call.
// Names without a scripted response succeed with an empty payload.
type FakeBridge struct {
	mu        sync.Mutex
	responses map[string]response
	held      map[string][]*Gate
	calls     []Call
}

func NewFakeBridge() *FakeBridge {
	return &FakeBridge{
		responses: make(map[string]response),
		held:      make(map[string][]*Gate),
	}
}

// Respond scripts a successful payload for name.
func (f *FakeBridge) Respond(name, output string) {
	f.mu.Lock()
	f.responses[name] = response{output: output}
	f.mu.Unlock()
}

// Fail scripts a rejection for name.
func (f *FakeBridge) Fail(name string, err error) {
	f.mu.Lock()
	f.responses[name] = response{err: err}
	f.mu.Unlock()
}

// Hold makes the next invocation of name block until the returned gate is
// resolved. Multiple holds on one name are consumed in order.
func (f *FakeBridge) Hold(name string) *Gate {
	g := &Gate{started: make(chan struct{}), release: make(chan response)}
	f.mu.Lock()
	f.held[name] = append(f.held[name], g)
	f.mu.Unlock()
	return g
}

func (f *FakeBridge) Invoke(ctx context.Context, name string, params map[string]string) (string, error) {
	f.mu.Lock()
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	f.calls = append(f.calls, Call{Name: name, Params: copied})
	var gate *Gate
	if queue := f.held[name]; len(queue) > 0 {
		gate = queue[0]
		f.held[name] = queue[1:]
	}
	scripted := f.responses[name]
	f.mu.Unlock()

	if gate == nil {
		return scripted.output, scripted.err
	}
	close(gate.started)
	select {
	case r := <-gate.release:
		return r.output, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Calls returns every recorded invocation in order.
func (f *FakeBridge) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Call, len(f.calls))
	copy(out, f.calls)
	return out
}

// CallCount returns how often name was invoked.
func (f *FakeBridge) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}
