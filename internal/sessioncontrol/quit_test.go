// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"testing"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
)

func TestCommandQuitRemovesClientWithNoProcess(t *testing.T) {
	c, _, notifier := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "ghost", "/bin/ghost")
	c.roster.Add(rec)

	c.commandQuit(rec)

	if _, ok := c.roster.ByClientID(id); ok {
		t.Fatal("client with no process should be removed immediately on quit")
	}
	if notifier.statusCalls == 0 {
		t.Fatal("want a ClientStatus notification from removeClient")
	}
}

func TestHandleChildExitRemovesClientPendingQuit(t *testing.T) {
	c, _, _ := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "quitter", "/bin/quitter")
	rec.ProcessID = 4242
	rec.SetPending(client.PendingQuit)
	c.roster.Add(rec)

	c.HandleChildExit(supervisor.ExitEvent{PID: 4242, Kind: supervisor.ExitClean})

	if _, ok := c.roster.ByClientID(id); ok {
		t.Fatal("client pending quit should be removed after its process exits")
	}
}

func TestHandleChildExitMarksUnexpectedStopAsStopped(t *testing.T) {
	c, _, notifier := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "crasher", "/bin/crasher")
	rec.ProcessID = 4343
	rec.Active = true
	c.roster.Add(rec)

	c.HandleChildExit(supervisor.ExitEvent{PID: 4343, Kind: supervisor.ExitAbnormal})

	if rec.ProcessID != 0 {
		t.Fatalf("ProcessID after exit = %d, want 0", rec.ProcessID)
	}
	if rec.Status != client.StatusStopped {
		t.Fatalf("Status = %v, want StatusStopped", rec.Status)
	}
	if rec.PendingCmd != client.PendingNone {
		t.Fatalf("PendingCmd = %v, want PendingNone", rec.PendingCmd)
	}
	if notifier.statusCalls == 0 {
		t.Fatal("want a ClientStatus notification")
	}
}

func TestHandleChildExitMarksLaunchError(t *testing.T) {
	c, _, _ := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "bad-exe", "/bin/bad-exe")
	rec.ProcessID = 4444
	c.roster.Add(rec)

	c.HandleChildExit(supervisor.ExitEvent{PID: 4444, Kind: supervisor.ExitLaunchError})

	if !rec.LaunchError {
		t.Fatal("want LaunchError set after ExitLaunchError")
	}
	if rec.Label != "Launch error!" {
		t.Fatalf("Label = %q, want %q", rec.Label, "Launch error!")
	}
}

func TestQuitCommandsEveryClientAndReplies(t *testing.T) {
	c, sender, _ := testController(t)

	id, _ := client.NewID()
	rec := client.NewRecord(id, "solo", "/bin/solo")
	rec.ProcessID = 4545
	rec.Active = true
	c.roster.Add(rec)

	from := udpAddr(t, "127.0.0.1:50")
	c.Quit(from)

	if rec.PendingCmd != client.PendingQuit {
		t.Fatalf("PendingCmd = %v, want PendingQuit", rec.PendingCmd)
	}
	if len(sender.replies("/nsm/server/quit")) != 1 {
		t.Fatal("want one /reply to server/quit")
	}
}
