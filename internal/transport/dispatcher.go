// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/oscreg"
)

// HandlerFunc processes one decoded message. from is the sender's
// address; reply helpers on the owning Dispatcher's Endpoint should be
// used to respond. A handler must return before the next message is
// drained — spec.md §4.1's single-threaded, cooperative dispatch
// contract — so handlers never block on anything but local computation.
type HandlerFunc func(from *net.UDPAddr, msg Received)

// Dispatcher drains an Endpoint and routes each message by its OSC path
// to a registered handler. Unrecognized paths and malformed datagrams
// are dropped with a warning log (spec.md §7).
type Dispatcher struct {
	endpoint *Endpoint
	logger   *slog.Logger
	handlers map[oscreg.Tag]HandlerFunc
	fallback HandlerFunc // for /reply and /error, routed by echoed path at the call site
}

// NewDispatcher creates a Dispatcher draining endpoint. logger must not
// be nil.
func NewDispatcher(endpoint *Endpoint, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		endpoint: endpoint,
		logger:   logger,
		handlers: make(map[oscreg.Tag]HandlerFunc),
	}
}

// Handle registers handler for tag. Panics if tag is already registered
// — a double registration is a programmer error, not a runtime
// condition, mirroring the teacher's socket server registration (cf.
// lib/service/socket.go).
func (d *Dispatcher) Handle(tag oscreg.Tag, handler HandlerFunc) {
	if _, exists := d.handlers[tag]; exists {
		panic(fmt.Sprintf("transport: duplicate handler for tag %q", tag))
	}
	if _, ok := oscreg.Lookup(tag); !ok {
		panic(fmt.Sprintf("transport: handler registered for unknown tag %q", tag))
	}
	d.handlers[tag] = handler
}

// HandleFallback registers a handler invoked for /reply and /error
// messages, which share a wire path across many logical requests and so
// cannot be routed by tag alone — the handler inspects the echoed
// request path inside the message body.
func (d *Dispatcher) HandleFallback(handler HandlerFunc) {
	d.fallback = handler
}

// DrainOne waits up to timeout for one datagram and dispatches it to the
// matching handler, if any. Returns ErrTimeout (check with errors.Is)
// when nothing arrived. This is the single step the daemon's main loop
// repeats.
func (d *Dispatcher) DrainOne(timeout time.Duration) error {
	received, err := d.endpoint.Wait(timeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return err
		}
		d.logger.Warn("dropping malformed datagram", "from", received.From, "error", err)
		return nil
	}

	entry, ok := oscreg.LookupPath(received.Message.Path)
	if !ok {
		d.logger.Warn("dropping message with unknown path", "path", received.Message.Path, "from", received.From)
		return nil
	}

	if entry.Path == "/reply" || entry.Path == "/error" {
		if d.fallback != nil {
			d.fallback(received.From, received)
		}
		return nil
	}

	handler, ok := d.handlers[entry.Tag]
	if !ok {
		d.logger.Debug("no handler registered for tag", "tag", entry.Tag, "path", entry.Path)
		return nil
	}
	handler(received.From, received)
	return nil
}
