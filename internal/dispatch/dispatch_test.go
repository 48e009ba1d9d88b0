package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/confirm"
	"github.com/atomicstack/winadmin/internal/metrics"
	"github.com/atomicstack/winadmin/internal/state"
	"github.com/atomicstack/winadmin/internal/testutil"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

type fixture struct {
	bridge *testutil.FakeBridge
	sink   state.OutputStore
	target state.TargetStore
	d      *Dispatcher
}

func newFixture(opts Options) *fixture {
	f := &fixture{
		bridge: testutil.NewFakeBridge(),
		sink:   state.NewOutputStore(),
		target: state.NewTargetStore(),
	}
	f.d = New(f.bridge, f.sink, f.target, confirm.NewGate(), opts)
	return f
}

func TestPingScenario(t *testing.T) {
	f := newFixture(Options{})
	f.bridge.Respond("ping", "Reply from 192.168.1.50: time=2ms")

	if out := f.d.SetTarget(context.Background(), "192.168.1.50"); out.State != StateSucceeded {
		t.Fatalf("set target failed: %+v", out)
	}
	if got := f.sink.Read(); got != "Target set: 192.168.1.50" {
		t.Fatalf("unexpected sink %q", got)
	}
	out := f.d.Dispatch(context.Background(), command.Ping)
	if out.State != StateSucceeded {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if got := f.sink.Read(); got != "Reply from 192.168.1.50: time=2ms" {
		t.Fatalf("unexpected sink %q", got)
	}
	if f.target.Current() != "192.168.1.50" {
		t.Fatalf("target changed unexpectedly: %q", f.target.Current())
	}
}

func TestDeclinedShutdownNeverCallsBridge(t *testing.T) {
	f := newFixture(Options{})
	f.sink.Write("before")

	out := f.d.Dispatch(context.Background(), command.Shutdown)
	if out.State != StatePendingConfirmation || out.Pending == nil {
		t.Fatalf("expected pending confirmation, got %+v", out)
	}
	if out.Pending.Prompt != "Are you sure you want to SHUTDOWN the remote machine?" {
		t.Fatalf("unexpected prompt %q", out.Pending.Prompt)
	}
	res, err := f.d.ResolveConfirmation(context.Background(), out.Pending.ID, false)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != StateDeclined {
		t.Fatalf("expected declined, got %v", res.State)
	}
	if len(f.bridge.Calls()) != 0 {
		t.Fatalf("bridge should not be called, got %+v", f.bridge.Calls())
	}
	if got := f.sink.Read(); got != "before" {
		t.Fatalf("sink changed to %q", got)
	}
	if _, err := f.d.ResolveConfirmation(context.Background(), out.Pending.ID, true); !errors.Is(err, confirm.ErrUnknown) {
		t.Fatalf("expected ErrUnknown on second resolve, got %v", err)
	}
}

func TestAcceptedRestartRunsOnce(t *testing.T) {
	f := newFixture(Options{})
	f.bridge.Respond("issue_restart", "")
	out := f.d.Dispatch(context.Background(), command.Restart)
	res, err := f.d.ResolveConfirmation(context.Background(), out.Pending.ID, true)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.State != StateSucceeded || f.bridge.CallCount("issue_restart") != 1 {
		t.Fatalf("expected one restart call, got %+v calls=%d", res, f.bridge.CallCount("issue_restart"))
	}
}

func TestIPConfigRejection(t *testing.T) {
	f := newFixture(Options{})
	f.bridge.Fail("get_ipconfig", errors.New("timeout"))
	out := f.d.Dispatch(context.Background(), command.IPConfig)
	if out.State != StateFailed {
		t.Fatalf("expected failure, got %v", out.State)
	}
	if got := f.sink.Read(); got != "Error: timeout" {
		t.Fatalf("unexpected sink %q", got)
	}
}

func TestSetTargetFailureKeepsPriorTarget(t *testing.T) {
	f := newFixture(Options{})
	f.d.SetTarget(context.Background(), "ws-001")
	f.bridge.Fail("set_target", errors.New("Target cannot be empty"))
	out := f.d.SetTarget(context.Background(), "")
	if out.State != StateFailed {
		t.Fatalf("expected failure, got %v", out.State)
	}
	if f.target.Current() != "ws-001" {
		t.Fatalf("target should be unchanged, got %q", f.target.Current())
	}
	if got := f.sink.Read(); got != "Failed to set target: Target cannot be empty" {
		t.Fatalf("unexpected sink %q", got)
	}
	if f.bridge.CallCount("set_target") != 2 {
		t.Fatalf("each submit should reach the bridge")
	}
}

func TestProjections(t *testing.T) {
	f := newFixture(Options{})
	f.bridge.Respond("get_current_user", `CORP\alice`)
	f.d.Dispatch(context.Background(), command.CurrentUser)
	if got := f.sink.Read(); got != `Current user: CORP\alice` {
		t.Fatalf("unexpected sink %q", got)
	}
	f.d.Dispatch(context.Background(), command.OpenDeviceManager)
	if got := f.sink.Read(); got != "Opened Device Manager" {
		t.Fatalf("unexpected sink %q", got)
	}
	f.bridge.Fail("open_dns", errors.New("access denied"))
	f.d.Dispatch(context.Background(), command.OpenDNS)
	if got := f.sink.Read(); got != "Error Opening DNS: access denied" {
		t.Fatalf("unexpected sink %q", got)
	}
}

func TestInProgressMessageWhileStalled(t *testing.T) {
	f := newFixture(Options{})
	gate := f.bridge.Hold("ping")
	done := make(chan Outcome)
	go func() { done <- f.d.Dispatch(context.Background(), command.Ping) }()
	<-gate.Started()
	if got := f.sink.Read(); got != "Pinging..." {
		t.Fatalf("expected in-progress message, got %q", got)
	}
	gate.Resolve("Reply", nil)
	<-done
	if got := f.sink.Read(); got != "Reply" {
		t.Fatalf("unexpected sink %q", got)
	}
}

// race issues ping then ipconfig, resolves ipconfig first and ping last.
func race(t *testing.T, f *fixture) (ping, ipconfig Outcome) {
	t.Helper()
	pingGate := f.bridge.Hold("ping")
	ipGate := f.bridge.Hold("get_ipconfig")
	pingDone := make(chan Outcome)
	ipDone := make(chan Outcome)
	go func() { pingDone <- f.d.Dispatch(context.Background(), command.Ping) }()
	<-pingGate.Started()
	go func() { ipDone <- f.d.Dispatch(context.Background(), command.IPConfig) }()
	<-ipGate.Started()

	ipGate.Resolve("ip", nil)
	ipconfig = <-ipDone
	pingGate.Resolve("pong", nil)
	ping = <-pingDone
	return ping, ipconfig
}

func TestResolvedPolicyLaterResolutionWins(t *testing.T) {
	f := newFixture(Options{Policy: PolicyResolved})
	ping, _ := race(t, f)
	if ping.State != StateSucceeded {
		t.Fatalf("expected ping to succeed, got %v", ping.State)
	}
	if got := f.sink.Read(); got != "pong" {
		t.Fatalf("expected later resolution in sink, got %q", got)
	}
}

func TestIssuedPolicyDiscardsStaleResolution(t *testing.T) {
	f := newFixture(Options{Policy: PolicyIssued})
	ping, ipconfig := race(t, f)
	if ipconfig.Seq <= ping.Seq {
		t.Fatalf("expected ipconfig to be issued later: %d vs %d", ipconfig.Seq, ping.Seq)
	}
	if ping.State != StateStale {
		t.Fatalf("expected stale ping, got %v", ping.State)
	}
	if got := f.sink.Read(); got != "ip" {
		t.Fatalf("expected later issue in sink, got %q", got)
	}
}

func TestIssuedPolicyStaleSetTargetStillMovesRegister(t *testing.T) {
	f := newFixture(Options{Policy: PolicyIssued})
	f.d.SetTarget(context.Background(), "old-host")
	gate := f.bridge.Hold("set_target")
	done := make(chan Outcome)
	go func() { done <- f.d.SetTarget(context.Background(), "new-host") }()
	<-gate.Started()

	f.bridge.Respond("ping", "pong")
	f.d.Dispatch(context.Background(), command.Ping)
	gate.Resolve("", nil)
	out := <-done

	if out.State != StateStale {
		t.Fatalf("expected stale set_target, got %v", out.State)
	}
	if got := f.target.Current(); got != "new-host" {
		t.Fatalf("register should follow the bridge, got %q", got)
	}
	if got := f.sink.Read(); got != "pong" {
		t.Fatalf("stale text should not reach the sink, got %q", got)
	}
}

func TestSerializeHoldsSecondCallForSameTarget(t *testing.T) {
	f := newFixture(Options{Serialize: true})
	f.target.Set("ws-042")
	first := f.bridge.Hold("ping")
	second := f.bridge.Hold("get_ipconfig")
	done := make(chan Outcome, 2)
	go func() { done <- f.d.Dispatch(context.Background(), command.Ping) }()
	<-first.Started()
	go func() { done <- f.d.Dispatch(context.Background(), command.IPConfig) }()

	select {
	case <-second.Started():
		t.Fatalf("second call reached the bridge while the first was in flight")
	case <-time.After(50 * time.Millisecond):
	}
	first.Resolve("pong", nil)
	<-second.Started()
	second.Resolve("ip", nil)
	<-done
	<-done
}

func TestMetricsRecorded(t *testing.T) {
	c := metrics.NewCollector()
	f := newFixture(Options{Metrics: c})
	f.d.Dispatch(context.Background(), command.Ping)
	out := f.d.Dispatch(context.Background(), command.Shutdown)
	_, _ = f.d.ResolveConfirmation(context.Background(), out.Pending.ID, false)

	if n, err := promtest.GatherAndCount(c.Registry(), "winadmin_dispatches_total"); err != nil || n != 3 {
		t.Fatalf("expected three dispatch series, got %d (%v)", n, err)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": PolicyResolved, "resolved": PolicyResolved, "issued": PolicyIssued} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("fifo"); err == nil {
		t.Fatalf("expected error for unknown policy")
	}
}
