// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adminsock

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/codec"
)

const (
	dialTimeout         = 5 * time.Second
	responseReadTimeout = 10 * time.Second
	maxResponseSize     = 64 * 1024
)

// CallError wraps a server-side {ok: false} response.
type CallError struct {
	Action  string
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("adminsock: %q failed: %s", e.Action, e.Message)
}

// Client sends CBOR requests to an adminsock socket. Unlike the OSC
// wire protocol, this socket is local-only (Unix domain, filesystem
// permissions apply) and carries no session token.
type Client struct {
	socketPath string
}

// NewClient returns a client that will dial socketPath on each Call.
func NewClient(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// Call sends action with fields (nil for none) and, on success, decodes
// the response's data field into result (nil to discard it). Each call
// opens and closes its own connection, matching the server's
// one-connection-one-cycle model.
func (c *Client) Call(ctx context.Context, action string, fields map[string]any, result any) error {
	request := make(map[string]any, len(fields)+1)
	for key, value := range fields {
		request[key] = value
	}
	request["action"] = action

	response, err := c.send(ctx, request)
	if err != nil {
		return fmt.Errorf("adminsock: calling %q on %s: %w", action, c.socketPath, err)
	}
	if !response.OK {
		return &CallError{Action: action, Message: response.Error}
	}
	if result != nil && len(response.Data) > 0 {
		if err := codec.Unmarshal(response.Data, result); err != nil {
			return fmt.Errorf("adminsock: decoding response for %q: %w", action, err)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, request any) (*Response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	if err := codec.NewEncoder(conn).Encode(request); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var response Response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&response); err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &response, nil
}
