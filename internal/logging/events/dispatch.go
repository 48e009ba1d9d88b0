package events

import (
	"time"

	"github.com/atomicstack/winadmin/internal/logging"
)

type DispatchTracer struct{}

type ConfirmTracer struct{}

type BridgeTracer struct{}

var (
	Dispatch = DispatchTracer{}
	Confirm  = ConfirmTracer{}
	Bridge   = BridgeTracer{}
)

func (DispatchTracer) Begin(seq uint64, command, target string) {
	logging.Trace("dispatch.begin", map[string]interface{}{"seq": seq, "command": command, "target": target})
}

func (DispatchTracer) Resolve(seq uint64, command string, elapsed time.Duration, err error) {
	payload := map[string]interface{}{"seq": seq, "command": command, "elapsed": elapsed.String()}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("dispatch.resolve", payload)
}

func (DispatchTracer) Stale(seq, latest uint64, command string) {
	logging.Trace("dispatch.stale", map[string]interface{}{"seq": seq, "latest": latest, "command": command})
}

func (ConfirmTracer) Request(id, command string) {
	logging.Trace("confirm.request", map[string]interface{}{"id": id, "command": command})
}

func (ConfirmTracer) Resolve(id, command string, accepted bool) {
	logging.Trace("confirm.resolve", map[string]interface{}{"id": id, "command": command, "accepted": accepted})
}

func (BridgeTracer) Exec(argv []string) {
	logging.Trace("bridge.exec", map[string]interface{}{"argv": argv})
}

func (BridgeTracer) Spawn(pid int, argv []string) {
	logging.Trace("bridge.spawn", map[string]interface{}{"pid": pid, "argv": argv})
}

func (BridgeTracer) Reap(pid int, killed bool) {
	logging.Trace("bridge.reap", map[string]interface{}{"pid": pid, "killed": killed})
}

func (BridgeTracer) Request(command string, params map[string]string) {
	logging.Trace("bridge.request", map[string]interface{}{"command": command, "params": params})
}
