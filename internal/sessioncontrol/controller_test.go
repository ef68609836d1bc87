// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"
	"testing"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/clock"
	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
)

// fakeSender records every outbound message instead of touching a real
// socket, the same role a fake transport plays in the teacher's own
// table-driven network tests.
type fakeSender struct {
	url  string
	sent []sentMessage
}

type sentMessage struct {
	addr *net.UDPAddr
	msg  oscwire.Message
}

func (f *fakeSender) SendTo(addr *net.UDPAddr, msg oscwire.Message) error {
	f.sent = append(f.sent, sentMessage{addr: addr, msg: msg})
	return nil
}

func (f *fakeSender) LocalURL() string { return f.url }

func (f *fakeSender) last() sentMessage {
	if len(f.sent) == 0 {
		return sentMessage{}
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeSender) replies(requestPath string) []sentMessage {
	var out []sentMessage
	for _, s := range f.sent {
		if s.msg.Path == "/reply" && len(s.msg.Args) > 0 && s.msg.Args[0] == requestPath {
			out = append(out, s)
		}
	}
	return out
}

// fakeNotifier counts GUI mirror calls without needing a real guirelay.
type fakeNotifier struct {
	statusCalls  int
	sessionNames []string
	messages     []string
	welcomeCalls int
	welcomeRecs  []*client.Record
}

func (f *fakeNotifier) ClientNew(*client.Record)      {}
func (f *fakeNotifier) ClientStatus(*client.Record)   { f.statusCalls++ }
func (f *fakeNotifier) ClientLabel(*client.Record)    {}
func (f *fakeNotifier) ClientDirty(*client.Record)    {}
func (f *fakeNotifier) ClientProgress(*client.Record) {}
func (f *fakeNotifier) ClientSwitch(client.ID, client.ID) {}
func (f *fakeNotifier) ClientRemoved(*client.Record)  {}
func (f *fakeNotifier) SessionName(name, relative string) {
	f.sessionNames = append(f.sessionNames, name)
}
func (f *fakeNotifier) Message(format string, args ...any) {
	f.messages = append(f.messages, format)
}
func (f *fakeNotifier) Welcome(sessionName, relativePath string, records []*client.Record) {
	f.welcomeCalls++
	f.welcomeRecs = records
}

// testController builds a Controller wired to a temp session store and
// lock layout, a fake sender/notifier, and a real Supervisor (process
// launches in these tests only ever exec /bin/true or /bin/sh, never
// the unavailable NSM clients themselves).
func testController(t *testing.T) (*Controller, *fakeSender, *fakeNotifier) {
	t.Helper()
	store, err := sessionstore.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	layout, err := lockdir.NewLayout(t.TempDir())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	sup := supervisor.New(nil)
	t.Cleanup(sup.Stop)

	sender := &fakeSender{url: "osc.udp://localhost:9000/"}
	notifier := &fakeNotifier{}

	c := New(Config{
		Roster:     client.NewRoster(),
		Store:      store,
		LockLayout: layout,
		Supervisor: sup,
		Sender:     sender,
		Notifier:   notifier,
		Clock:      clock.Real(),
	})
	return c, sender, notifier
}

func udpAddr(t *testing.T, s string) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", s)
	if err != nil {
		t.Fatalf("ResolveUDPAddr(%q): %v", s, err)
	}
	return addr
}
