// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/oscwire"
)

// ErrTimeout is returned by Wait when no datagram arrives within the
// requested timeout. Callers compare with errors.Is.
var ErrTimeout = errors.New("transport: wait timed out")

// maxDatagramSize is generous for this protocol's messages — the largest
// payload is a session-list /reply carrying a single path string.
const maxDatagramSize = 8192

// Endpoint is a UDP datagram transport: one bound socket that can both
// send to arbitrary peers and receive from whoever sent last.
type Endpoint struct {
	conn *net.UDPConn
}

// Listen binds a UDP socket on address (host:port, or ":0" for an
// OS-assigned port) and returns an Endpoint ready to send and receive.
func Listen(address string) (*Endpoint, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: resolving %q: %w", address, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("transport: listening on %q: %w", address, err)
	}
	return &Endpoint{conn: conn}, nil
}

// Close releases the underlying socket.
func (e *Endpoint) Close() error {
	return e.conn.Close()
}

// LocalAddr returns the endpoint's bound local address.
func (e *Endpoint) LocalAddr() *net.UDPAddr {
	return e.conn.LocalAddr().(*net.UDPAddr)
}

// URL returns this endpoint's address as an OSC URL, e.g.
// "osc.udp://127.0.0.1:14000/". This is the form written to lockfiles
// and daemon advertisement files, and exported to children as NSM_URL.
func (e *Endpoint) URL() string {
	return AddrToURL(e.LocalAddr())
}

// AddrToURL renders a UDP address as an OSC URL.
func AddrToURL(addr *net.UDPAddr) string {
	return fmt.Sprintf("osc.udp://%s/", addr.String())
}

// ParseURL parses an OSC URL of the form "osc.udp://host:port/" back into
// a UDP address suitable for SendTo.
func ParseURL(url string) (*net.UDPAddr, error) {
	const prefix = "osc.udp://"
	if len(url) <= len(prefix) || url[:len(prefix)] != prefix {
		return nil, fmt.Errorf("transport: %q is not an osc.udp:// URL", url)
	}
	hostport := url[len(prefix):]
	if len(hostport) > 0 && hostport[len(hostport)-1] == '/' {
		hostport = hostport[:len(hostport)-1]
	}
	addr, err := net.ResolveUDPAddr("udp", hostport)
	if err != nil {
		return nil, fmt.Errorf("transport: parsing %q: %w", url, err)
	}
	return addr, nil
}

// SendTo encodes and sends msg to addr.
func (e *Endpoint) SendTo(addr *net.UDPAddr, msg oscwire.Message) error {
	encoded, err := oscwire.Encode(msg)
	if err != nil {
		return fmt.Errorf("transport: encoding %s: %w", msg.Path, err)
	}
	if _, err := e.conn.WriteToUDP(encoded, addr); err != nil {
		return fmt.Errorf("transport: sending %s to %s: %w", msg.Path, addr, err)
	}
	return nil
}

// SendToURL encodes and sends msg to the peer identified by an OSC URL.
func (e *Endpoint) SendToURL(url string, msg oscwire.Message) error {
	addr, err := ParseURL(url)
	if err != nil {
		return err
	}
	return e.SendTo(addr, msg)
}

// Received is one inbound datagram, decoded and attributed to its sender.
type Received struct {
	Message oscwire.Message
	From    *net.UDPAddr
}

// Wait blocks until a datagram arrives or timeout elapses, whichever is
// first. A zero or negative timeout blocks indefinitely (steady-state
// polling, spec.md §5: "1000 ms steady state").
func (e *Endpoint) Wait(timeout time.Duration) (Received, error) {
	if timeout > 0 {
		if err := e.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return Received{}, fmt.Errorf("transport: setting read deadline: %w", err)
		}
	} else {
		if err := e.conn.SetReadDeadline(time.Time{}); err != nil {
			return Received{}, fmt.Errorf("transport: clearing read deadline: %w", err)
		}
	}

	buf := make([]byte, maxDatagramSize)
	n, from, err := e.conn.ReadFromUDP(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return Received{}, ErrTimeout
		}
		return Received{}, fmt.Errorf("transport: reading: %w", err)
	}

	msg, err := oscwire.Decode(buf[:n])
	if err != nil {
		// A malformed datagram is dropped after a warning at the call
		// site (spec.md §7: "Transport decode failure → silently
		// dropped after a warning at the null-handler"); the caller
		// logs, this layer just reports it distinctly from ErrTimeout.
		return Received{From: from}, fmt.Errorf("transport: decoding from %s: %w", from, err)
	}
	return Received{Message: msg, From: from}, nil
}

// Poll is a non-blocking Wait: it returns ErrTimeout immediately if no
// datagram is already queued.
func (e *Endpoint) Poll() (Received, error) {
	return e.Wait(1 * time.Nanosecond)
}
