// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"testing"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
)

func TestBroadcastRelaysToActiveClientsExcludingSender(t *testing.T) {
	c, sender, _ := testController(t)

	id1, _ := client.NewID()
	rec1 := client.NewRecord(id1, "alpha", "/bin/alpha")
	rec1.Active = true
	rec1.Address = udpAddr(t, "127.0.0.1:30")
	c.roster.Add(rec1)

	id2, _ := client.NewID()
	rec2 := client.NewRecord(id2, "beta", "/bin/beta")
	rec2.Active = true
	rec2.Address = udpAddr(t, "127.0.0.1:31")
	c.roster.Add(rec2)

	from := rec1.Address
	c.Broadcast(from, oscwire.Message{Path: "/nsm/server/broadcast", Args: []any{"/foo/bar", "hi"}})

	if len(sender.sent) != 1 {
		t.Fatalf("got %d sends, want 1 (excluding sender)", len(sender.sent))
	}
	if sender.sent[0].addr.String() != rec2.Address.String() {
		t.Fatalf("broadcast went to %v, want %v", sender.sent[0].addr, rec2.Address)
	}
	if sender.sent[0].msg.Path != "/foo/bar" {
		t.Fatalf("relayed path = %q, want /foo/bar", sender.sent[0].msg.Path)
	}
	if len(sender.sent[0].msg.Args) != 1 || sender.sent[0].msg.Args[0] != "hi" {
		t.Fatalf("relayed args = %v, want [hi]", sender.sent[0].msg.Args)
	}
}

func TestBroadcastDropsReservedNSMPaths(t *testing.T) {
	c, sender, _ := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "alpha", "/bin/alpha")
	rec.Active = true
	rec.Address = udpAddr(t, "127.0.0.1:32")
	c.roster.Add(rec)

	c.Broadcast(udpAddr(t, "127.0.0.1:33"), oscwire.Message{Path: "/nsm/server/broadcast", Args: []any{"/nsm/server/list"}})

	if len(sender.sent) != 0 {
		t.Fatalf("got %d sends, want 0 for a reserved /nsm/ path", len(sender.sent))
	}
}

func TestHandleGUIAnnounceAttachesAndSendsWelcome(t *testing.T) {
	c, _, notifier := testController(t)
	gui := udpAddr(t, "127.0.0.1:37")

	c.HandleGUIAnnounce(gui)

	if c.GUIAddress().String() != gui.String() {
		t.Fatalf("GUIAddress() = %v, want %v", c.GUIAddress(), gui)
	}
	if notifier.welcomeCalls != 1 {
		t.Fatalf("welcomeCalls = %d, want 1", notifier.welcomeCalls)
	}
}

func TestBroadcastWithNoRelayPathIsDropped(t *testing.T) {
	c, sender, _ := testController(t)

	c.Broadcast(udpAddr(t, "127.0.0.1:36"), oscwire.Message{Path: "/nsm/server/broadcast"})

	if len(sender.sent) != 0 {
		t.Fatalf("got %d sends, want 0 for an envelope with no relay path", len(sender.sent))
	}
}

func TestBroadcastRelaysToGUI(t *testing.T) {
	c, sender, _ := testController(t)
	gui := udpAddr(t, "127.0.0.1:34")
	c.SetGUIAddress(gui)

	from := udpAddr(t, "127.0.0.1:35")
	c.Broadcast(from, oscwire.Message{Path: "/nsm/server/broadcast", Args: []any{"/foo"}})

	if len(sender.sent) != 1 || sender.sent[0].addr.String() != gui.String() {
		t.Fatalf("broadcast did not reach the GUI address")
	}
}
