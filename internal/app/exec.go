package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/winadmin/internal/bridge"
	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/dispatch"
	"github.com/atomicstack/winadmin/internal/session"
)

// ErrDeclined is returned by Exec when the operator refuses a destructive
// command.
var ErrDeclined = errors.New("declined")

// Exec runs one catalogue command outside the console. A non-empty target
// is submitted first. Destructive commands ask confirm before the bridge is
// called. The returned outcome carries the text the console would show.
func Exec(ctx context.Context, cfg Config, name, target string, confirm func(prompt string) bool) (dispatch.Outcome, error) {
	cmd, err := command.Parse(name)
	if err != nil {
		return dispatch.Outcome{}, err
	}
	b, err := newBridge(cfg)
	if err != nil {
		return dispatch.Outcome{}, err
	}
	defer b.Close()
	return execWith(ctx, b, cmd, target, confirm)
}

func execWith(ctx context.Context, b bridge.Bridge, cmd command.Command, target string, confirm func(string) bool) (dispatch.Outcome, error) {
	sess := session.New(b, session.Options{})
	if target != "" && cmd != command.SetTarget {
		if out := sess.SetTarget(ctx, target); out.State == dispatch.StateFailed {
			return out, errors.New(out.Text)
		}
	}

	var out dispatch.Outcome
	if cmd == command.SetTarget {
		out = sess.SetTarget(ctx, target)
	} else {
		out = sess.Dispatch(ctx, cmd)
	}
	if out.State == dispatch.StatePendingConfirmation {
		accepted := confirm != nil && confirm(out.Pending.Prompt)
		resolved, err := sess.ResolveConfirmation(ctx, out.Pending.ID, accepted)
		if err != nil {
			return resolved, fmt.Errorf("resolve confirmation: %w", err)
		}
		out = resolved
	}
	switch out.State {
	case dispatch.StateDeclined:
		return out, ErrDeclined
	case dispatch.StateFailed:
		return out, errors.New(out.Text)
	}
	return out, nil
}
