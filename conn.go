// Package nntp implements a client for the NNTP news protocol over a
// plaintext or TLS byte stream.
// Requests and responses are strictly half-duplex: a Conn carries at most
// one request at a time and decodes each response incrementally as the
// bytes arrive.
package nntp

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/pkg/errors"
)

// State is the lifecycle position of a Conn.
type State int32

const (
	// StateDisconnected is a Conn that has not started dialing.
	StateDisconnected State = iota
	// StateConnecting covers the TCP dial and TLS handshake.
	StateConnecting
	// StateAwaitingGreeting waits for the server banner.
	StateAwaitingGreeting
	// StateIdle accepts the next request.
	StateIdle
	// StateAwaitingResponse has one request in flight.
	StateAwaitingResponse
	// StateFailed follows any request error other than a busy rejection.
	// The stream may be misaligned, so no further requests are accepted.
	StateFailed
	// StateClosed follows Close, Quit or a failed Dial.
	StateClosed
)

// String returns the state in words.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateAwaitingGreeting:
		return "awaiting greeting"
	case StateIdle:
		return "idle"
	case StateAwaitingResponse:
		return "awaiting response"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Conn is a connection to a news server.
//
// A Conn owns its transport and the buffer responses accumulate in. It is
// safe to call from several goroutines, but only one request is carried
// at a time: a request issued while another is in flight fails with
// ErrBusy rather than being interleaved.
type Conn struct {
	server    Server
	transport *transport
	buf       Decoder
	greeting  *Response[GreetingResponse]
	logger    Logger

	opts options

	state atomic.Int32
}

// checkOptions validates and sets default values for connection options.
func checkOptions(opts *options) {
	if opts.readChunkSize <= 0 {
		opts.readChunkSize = defaultReadChunkSize
	}

	if opts.dialer == nil {
		opts.dialer = &net.Dialer{}
	}

	if opts.logger == nil {
		opts.logger = defaultLogger()
	}
}

// Dial connects to server, upgrading to TLS when useTLS is set, and reads
// the server greeting. ctx bounds the dial and the TLS handshake only.
// On any failure the socket is closed and no Conn is returned.
func Dial(ctx context.Context, server Server, useTLS bool, opt ...Option) (*Conn, error) {
	var opts options
	for _, o := range opt {
		o(&opts)
	}
	checkOptions(&opts)

	c := &Conn{
		server: server,
		logger: opts.logger,
		opts:   opts,
	}

	c.setState(StateConnecting)
	t, err := dialTransport(ctx, server, useTLS, opts)
	if err != nil {
		c.setState(StateClosed)
		return nil, err
	}
	c.transport = t
	c.logger.Debug("transport established", "server", server, "addr", t.remoteAddr(), "tls", t.secure)

	c.setState(StateAwaitingGreeting)
	greeting := newResponse[GreetingResponse]()
	if err := c.readResponse(greeting); err != nil {
		c.setState(StateClosed)
		t.close()
		return nil, errors.WithMessagef(err, "greeting from %s", server)
	}
	c.greeting = greeting

	c.setState(StateIdle)
	c.logger.Info("connection established", "server", server, "code", greeting.Code())
	return c, nil
}

// Server returns the address the Conn was dialed with.
func (c *Conn) Server() Server {
	return c.server
}

// Greeting returns the greeting the server sent on connect.
func (c *Conn) Greeting() *Response[GreetingResponse] {
	return c.greeting
}

// State returns the Conn's current lifecycle state.
func (c *Conn) State() State {
	return State(c.state.Load())
}

func (c *Conn) setState(s State) {
	c.state.Store(int32(s))
}

// Do sends cmd and decodes the reply as a T. The type of T decides which
// status codes are accepted and how the body is parsed:
//
//	resp, err := nntp.Do[nntp.GroupResponse](conn, nntp.GroupRequest{Name: "alt.test"})
//
// A status code outside T's table is an error, as is any transport or
// decode fault; after one the Conn is failed and must be closed. A listed
// failure code is not an error: check Response.OK.
func Do[T any, PT bodyPtr[T]](c *Conn, cmd Command) (*Response[T], error) {
	resp := newResponse[T, PT]()
	if err := c.roundTrip(cmd, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Conn) roundTrip(cmd Command, resp envelope) error {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StateAwaitingResponse)) {
		if c.State() == StateAwaitingResponse {
			return ErrBusy
		}
		return ErrClosed
	}

	data, err := Encode(cmd)
	if err != nil {
		// Nothing was written, so the stream is still aligned.
		c.setState(StateIdle)
		return err
	}
	verb := commandVerb(data)

	if err := c.writeAll(bytes.NewBuffer(data)); err != nil {
		c.fail()
		return errors.WithMessagef(err, "send %s", verb)
	}
	c.logger.Debug("command sent", "server", c.server, "command", verb)

	if err := c.readResponse(resp); err != nil {
		c.fail()
		return errors.WithMessagef(err, "response to %s", verb)
	}

	c.state.CompareAndSwap(int32(StateAwaitingResponse), int32(StateIdle))
	return nil
}

// writeAll writes until the transport has taken every byte.
func (c *Conn) writeAll(buf *bytes.Buffer) error {
	for buf.Len() > 0 {
		if _, err := c.transport.write(buf); err != nil {
			return err
		}
	}
	return nil
}

// readResponse reads chunk after chunk into the accumulation buffer,
// retrying the whole decode each time, until resp is complete or an error
// other than a short buffer occurs.
func (c *Conn) readResponse(resp envelope) error {
	c.buf.Reset()
	defer c.buf.Reset()

	for {
		if _, err := c.transport.read(&c.buf); err != nil {
			return err
		}

		err := resp.decode(&c.buf)
		switch {
		case err == nil:
			if r, ok := resp.(interface{ Code() int }); ok {
				c.logger.Debug("response received", "server", c.server, "code", r.Code())
			}
			return nil
		case errors.Is(err, errNeedMoreBytes):
			continue
		default:
			return err
		}
	}
}

// fail marks an in-flight request as failed. A concurrent Close wins.
func (c *Conn) fail() {
	c.state.CompareAndSwap(int32(StateAwaitingResponse), int32(StateFailed))
}

// Close closes the underlying transport without saying goodbye to the
// server. Safe to call multiple times.
func (c *Conn) Close() error {
	if State(c.state.Swap(int32(StateClosed))) == StateClosed {
		return nil // already closed
	}
	c.logger.Info("connection closed", "server", c.server)
	return c.transport.close()
}
