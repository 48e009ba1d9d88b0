package bridge

// Request is the NATS payload sent for one invocation.
type Request struct {
	Command string            `cbor:"command"`
	Params  map[string]string `cbor:"params,omitempty"`
}

// Reply carries the outcome back; a non-empty Error means rejection.
type Reply struct {
	Output string `cbor:"output"`
	Error  string `cbor:"error,omitempty"`
}
