// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guirelay

import (
	"net"
	"testing"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
)

type fakeSender struct {
	sent []oscwire.Message
}

func (f *fakeSender) SendTo(addr *net.UDPAddr, msg oscwire.Message) error {
	f.sent = append(f.sent, msg)
	return nil
}

type fixedAddress struct{ addr *net.UDPAddr }

func (f fixedAddress) GUIAddress() *net.UDPAddr { return f.addr }

func udpAddr(t *testing.T) *net.UDPAddr {
	t.Helper()
	addr, err := net.ResolveUDPAddr("udp", "127.0.0.1:9999")
	if err != nil {
		t.Fatalf("ResolveUDPAddr: %v", err)
	}
	return addr
}

func TestRelaySuppressesSendsWithNoGUIAttached(t *testing.T) {
	sender := &fakeSender{}
	relay := New(sender, fixedAddress{addr: nil}, "/sessions", nil)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "ardour", "/usr/bin/ardour")
	relay.ClientNew(rec)
	relay.ClientStatus(rec)
	relay.Message("hello %s", "world")

	if len(sender.sent) != 0 {
		t.Fatalf("got %d sends with no GUI attached, want 0", len(sender.sent))
	}
}

func TestRelayMirrorsClientEvents(t *testing.T) {
	sender := &fakeSender{}
	relay := New(sender, fixedAddress{addr: udpAddr(t)}, "/sessions", nil)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "ardour", "/usr/bin/ardour")
	rec.Status = client.StatusReady
	rec.Label = "Track 1"
	rec.Dirty = true
	rec.Progress = 0.75

	relay.ClientNew(rec)
	relay.ClientStatus(rec)
	relay.ClientLabel(rec)
	relay.ClientDirty(rec)
	relay.ClientProgress(rec)
	relay.ClientRemoved(rec)

	wantPaths := []string{
		pathClientNew, pathClientStatus, pathClientLabel,
		pathClientDirty, pathClientProgress, pathClientRemoved,
	}
	if len(sender.sent) != len(wantPaths) {
		t.Fatalf("got %d sends, want %d", len(sender.sent), len(wantPaths))
	}
	for i, want := range wantPaths {
		if sender.sent[i].Path != want {
			t.Errorf("send[%d].Path = %q, want %q", i, sender.sent[i].Path, want)
		}
	}
}

func TestRelayMirrorsClientSwitch(t *testing.T) {
	sender := &fakeSender{}
	relay := New(sender, fixedAddress{addr: udpAddr(t)}, "/sessions", nil)

	oldID, _ := client.NewID()
	newID, _ := client.NewID()
	relay.ClientSwitch(oldID, newID)

	if len(sender.sent) != 1 || sender.sent[0].Path != pathClientSwitch {
		t.Fatalf("want one client/switch send, got %v", sender.sent)
	}
	if sender.sent[0].Args[0] != oldID.String() || sender.sent[0].Args[1] != newID.String() {
		t.Fatalf("args = %v, want [%s %s]", sender.sent[0].Args, oldID, newID)
	}
}

func TestWelcomeSendsSessionRootAndPerClientPayload(t *testing.T) {
	sender := &fakeSender{}
	relay := New(sender, fixedAddress{addr: udpAddr(t)}, "/sessions", nil)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "ardour", "/usr/bin/ardour")
	rec.Active = true
	rec.Capabilities = ":optional-gui:"

	relay.Welcome("my-session", "my-session", []*client.Record{rec})

	if sender.sent[0].Path != pathSessionRoot || sender.sent[0].Args[0] != "/sessions" {
		t.Fatalf("first send = %+v, want session root", sender.sent[0])
	}
	if sender.sent[1].Path != pathSessionName {
		t.Fatalf("second send = %+v, want session name", sender.sent[1])
	}

	var gotHasGUI bool
	newCount := 0
	for _, msg := range sender.sent[2:] {
		switch msg.Path {
		case pathClientNew:
			newCount++
		case pathClientHasGUI:
			gotHasGUI = true
		}
	}
	if !gotHasGUI {
		t.Fatal("want a has_optional_gui send for a client advertising :optional-gui:")
	}
	if newCount != 2 {
		t.Fatalf("got %d client/new sends for an active client, want 2 (launch + announce mirror)", newCount)
	}
}

func TestWelcomeWithNoSessionOpenSendsEmptyStrings(t *testing.T) {
	sender := &fakeSender{}
	relay := New(sender, fixedAddress{addr: udpAddr(t)}, "/sessions", nil)

	relay.Welcome("", "", nil)

	if sender.sent[1].Path != pathSessionName || sender.sent[1].Args[0] != "" || sender.sent[1].Args[1] != "" {
		t.Fatalf("session name send = %+v, want empty-string pair", sender.sent[1])
	}
}
