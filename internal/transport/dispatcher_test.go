// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/oscreg"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherRoutesByTag(t *testing.T) {
	a, b := newLoopbackPair(t)

	dispatcher := NewDispatcher(b, silentLogger())

	var gotFrom *net.UDPAddr
	var gotMsg oscwire.Message
	dispatcher.Handle(oscreg.TagServerSave, func(from *net.UDPAddr, received Received) {
		gotFrom = from
		gotMsg = received.Message
	})

	if err := a.SendTo(b.LocalAddr(), oscwire.Message{Path: "/nsm/server/save"}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if err := dispatcher.DrainOne(time.Second); err != nil {
		t.Fatalf("DrainOne: %v", err)
	}

	if gotMsg.Path != "/nsm/server/save" {
		t.Errorf("Path = %q, want /nsm/server/save", gotMsg.Path)
	}
	if gotFrom.Port != a.LocalAddr().Port {
		t.Errorf("From.Port = %d, want %d", gotFrom.Port, a.LocalAddr().Port)
	}
}

func TestDispatcherFallbackForReplyAndError(t *testing.T) {
	a, b := newLoopbackPair(t)
	dispatcher := NewDispatcher(b, silentLogger())

	var seen []string
	dispatcher.HandleFallback(func(from *net.UDPAddr, received Received) {
		seen = append(seen, received.Message.Path)
	})

	if err := a.SendTo(b.LocalAddr(), oscwire.Message{Path: "/reply", Args: []any{"/nsm/server/save", "Saved."}}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if err := dispatcher.DrainOne(time.Second); err != nil {
		t.Fatalf("DrainOne: %v", err)
	}

	if len(seen) != 1 || seen[0] != "/reply" {
		t.Fatalf("seen = %v, want [/reply]", seen)
	}
}

func TestDispatcherDropsUnknownPath(t *testing.T) {
	a, b := newLoopbackPair(t)
	dispatcher := NewDispatcher(b, silentLogger())

	called := false
	dispatcher.HandleFallback(func(from *net.UDPAddr, received Received) { called = true })

	if err := a.SendTo(b.LocalAddr(), oscwire.Message{Path: "/some/unknown/path"}); err != nil {
		t.Fatalf("SendTo: %v", err)
	}
	if err := dispatcher.DrainOne(time.Second); err != nil {
		t.Fatalf("DrainOne: %v", err)
	}
	if called {
		t.Fatal("fallback handler invoked for unregistered, unknown path")
	}
}

func TestHandleRegisteredTwicePanics(t *testing.T) {
	_, b := newLoopbackPair(t)
	dispatcher := NewDispatcher(b, silentLogger())
	dispatcher.Handle(oscreg.TagServerSave, func(*net.UDPAddr, Received) {})

	defer func() {
		if recover() == nil {
			t.Fatal("Handle: expected panic for duplicate registration")
		}
	}()
	dispatcher.Handle(oscreg.TagServerSave, func(*net.UDPAddr, Received) {})
}
