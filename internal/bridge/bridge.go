// Package bridge provides the remote invocation channel the console
// dispatches through. Every implementation honours one call shape: a
// command name plus optional string parameters in, text out, or an error
// the console renders for the operator.
package bridge

import (
	"context"
	"errors"
)

var (
	// ErrNoTarget is returned when a target-bound command runs before a
	// target was accepted.
	ErrNoTarget = errors.New("No target machine set")
	// ErrEmptyTarget rejects blank set_target submissions.
	ErrEmptyTarget = errors.New("Target cannot be empty")
	// ErrConsoleUnsupported is returned by executors that cannot start
	// interactive consoles.
	ErrConsoleUnsupported = errors.New("console launch is not supported over ssh")
)

// Bridge invokes a named operation on the host side.
type Bridge interface {
	Invoke(ctx context.Context, name string, params map[string]string) (string, error)
}

// Func adapts a function to the Bridge interface.
type Func func(ctx context.Context, name string, params map[string]string) (string, error)

func (f Func) Invoke(ctx context.Context, name string, params map[string]string) (string, error) {
	return f(ctx, name, params)
}
