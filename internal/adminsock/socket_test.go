// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adminsock

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

func testSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "adminsock.sock")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func waitForSocket(t *testing.T, path string) {
	t.Helper()
	for {
		if _, err := os.Stat(path); err == nil {
			return
		}
		runtime.Gosched()
	}
}

func startServer(t *testing.T, server *SocketServer) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	var serveErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		serveErr = server.Serve(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		wg.Wait()
		if serveErr != nil {
			t.Errorf("Serve returned error: %v", serveErr)
		}
	})

	waitForSocket(t, server.socketPath)
}

func TestPingRoundTrips(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("ping", func(ctx context.Context, raw []byte) (any, error) {
		return PingResponse{OK: true}, nil
	})
	startServer(t, server)

	var result PingResponse
	client := NewClient(socketPath)
	if err := client.Call(context.Background(), "ping", nil, &result); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !result.OK {
		t.Error("PingResponse.OK = false, want true")
	}
}

func TestCallWithUnknownActionReturnsCallError(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	startServer(t, server)

	client := NewClient(socketPath)
	err := client.Call(context.Background(), "no-such-action", nil, nil)
	if err == nil {
		t.Fatal("Call with unknown action succeeded, want error")
	}
	var callErr *CallError
	if !asCallError(err, &callErr) {
		t.Fatalf("error = %v (%T), want *CallError", err, err)
	}
	if callErr.Action != "no-such-action" {
		t.Errorf("callErr.Action = %q", callErr.Action)
	}
}

func TestCallWithHandlerErrorPropagatesMessage(t *testing.T) {
	socketPath := testSocketPath(t)
	server := NewSocketServer(socketPath, testLogger())
	server.Handle("fail", func(ctx context.Context, raw []byte) (any, error) {
		return nil, errBoom
	})
	startServer(t, server)

	client := NewClient(socketPath)
	err := client.Call(context.Background(), "fail", nil, nil)
	var callErr *CallError
	if !asCallError(err, &callErr) {
		t.Fatalf("error = %v, want *CallError", err)
	}
	if callErr.Message != errBoom.Error() {
		t.Errorf("callErr.Message = %q, want %q", callErr.Message, errBoom.Error())
	}
}

func TestHandleRegisteringSameActionTwicePanics(t *testing.T) {
	server := NewSocketServer(testSocketPath(t), testLogger())
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate action did not panic")
		}
	}()
	server.Handle("status", func(context.Context, []byte) (any, error) { return nil, nil })
}

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }

func asCallError(err error, out **CallError) bool {
	callErr, ok := err.(*CallError)
	if !ok {
		return false
	}
	*out = callErr
	return true
}
