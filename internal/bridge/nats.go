package bridge

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/winadmin/internal/codec"
	"github.com/atomicstack/winadmin/internal/command"
	"github.com/atomicstack/winadmin/internal/logging"
	"github.com/atomicstack/winadmin/internal/logging/events"
	"github.com/nats-io/nats.go"
)

const (
	// DefaultSubject prefixes the request subject.
	DefaultSubject = "winadmin"
	// DefaultRequestTimeout applies when the caller's context has no deadline.
	DefaultRequestTimeout = 2 * time.Minute
)

// Connect opens a NATS connection that reconnects indefinitely.
func Connect(url, name string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				logging.Error(fmt.Errorf("nats disconnected: %w", err))
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Trace("nats.reconnect", map[string]interface{}{"url": nc.ConnectedUrl()})
		}),
	}
	return nats.Connect(url, opts...)
}

func invokeSubject(prefix string) string {
	if prefix == "" {
		prefix = DefaultSubject
	}
	return prefix + ".invoke"
}

// NATSClient forwards invocations to an agent over NATS request/reply.
type NATSClient struct {
	nc      *nats.Conn
	subject string
	timeout time.Duration
}

func NewNATSClient(nc *nats.Conn, prefix string, timeout time.Duration) *NATSClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &NATSClient{nc: nc, subject: invokeSubject(prefix), timeout: timeout}
}

func (c *NATSClient) Invoke(ctx context.Context, name string, params map[string]string) (string, error) {
	if c.nc == nil || c.nc.IsClosed() {
		return "", errors.New("nats not connected")
	}
	payload, err := codec.Marshal(Request{Command: name, Params: params})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	events.Bridge.Request(name, params)
	msg, err := c.nc.RequestWithContext(ctx, c.subject, payload)
	if err != nil {
		return "", fmt.Errorf("nats request: %w", err)
	}
	var reply Reply
	if err := codec.Unmarshal(msg.Data, &reply); err != nil {
		return "", fmt.Errorf("decode reply: %w", err)
	}
	if reply.Error != "" {
		return "", errors.New(reply.Error)
	}
	return reply.Output, nil
}

// Close drains the connection.
func (c *NATSClient) Close() {
	if c.nc != nil {
		_ = c.nc.Drain()
	}
}

// Serve answers invocations on the subject using b. Requests are handled on
// the subscription's goroutine one at a time.
func Serve(nc *nats.Conn, prefix string, b Bridge) (*nats.Subscription, error) {
	return nc.Subscribe(invokeSubject(prefix), func(msg *nats.Msg) {
		reply := HandleRequest(context.Background(), b, msg.Data)
		if err := msg.Respond(reply); err != nil {
			logging.Error(fmt.Errorf("nats respond: %w", err))
		}
	})
}

// HandleRequest decodes one request, runs it and encodes the reply.
func HandleRequest(ctx context.Context, b Bridge, data []byte) []byte {
	var req Request
	var reply Reply
	if err := codec.Unmarshal(data, &req); err != nil {
		reply.Error = fmt.Sprintf("decode request: %v", err)
	} else if _, err := command.Parse(req.Command); err != nil {
		reply.Error = err.Error()
	} else {
		events.Bridge.Request(req.Command, req.Params)
		out, err := b.Invoke(ctx, req.Command, req.Params)
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.Output = out
		}
	}
	encoded, err := codec.Marshal(reply)
	if err != nil {
		logging.Error(fmt.Errorf("encode reply: %w", err))
		return nil
	}
	return encoded
}
