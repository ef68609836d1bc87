// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
)

// commandQuit sends SIGTERM and marks rec pending=quit (spec.md §4.3,
// "quit directive"). A record with no running process is removed
// immediately — there is nothing to wait for.
func (c *Controller) commandQuit(rec *client.Record) {
	if rec.ProcessID == 0 {
		c.removeClient(rec)
		return
	}
	rec.Status = client.StatusQuit
	rec.SetPending(client.PendingQuit)
	c.notifier.ClientStatus(rec)
	if err := c.supervisor.Kill(rec.ProcessID); err != nil {
		c.logger.Warn("SIGTERM failed", "client", rec.ClientID, "pid", rec.ProcessID, "error", err)
	}
}

// waitForKilledClientsToDie polls up to c.killedClientsWait for every
// record in killed to stop running, SIGKILLing any survivor (spec.md
// §4.5 step 6, §4.8).
func (c *Controller) waitForKilledClientsToDie(killed []*client.Record) {
	c.pollUntil(c.killedClientsWait, waitForKilledClientsPoll, func() bool {
		c.drainChildExits()
		for _, rec := range killed {
			if rec.ProcessID != 0 {
				return false
			}
		}
		return true
	})

	for _, rec := range killed {
		if rec.ProcessID == 0 {
			continue
		}
		c.logger.Warn("client unresponsive to SIGTERM, sending SIGKILL", "client", rec.ClientID, "pid", rec.ProcessID)
		if err := c.supervisor.KillNow(rec.ProcessID); err != nil {
			c.logger.Warn("SIGKILL failed", "client", rec.ClientID, "pid", rec.ProcessID, "error", err)
		}
	}
}

// removeClient drops rec from the roster and notifies the GUI
// (spec.md §3, "a client with status removed is not kept in the
// roster").
func (c *Controller) removeClient(rec *client.Record) {
	rec.Status = client.StatusRemoved
	c.notifier.ClientStatus(rec)
	c.notifier.ClientRemoved(rec)
	c.roster.Remove(rec.ClientID)
}

// HandleChildExit drives the per-client state machine for one reaped
// or swept process (spec.md §4.3's death transitions). Called by the
// daemon's main loop after supervisor.Drain or supervisor.Sweep.
func (c *Controller) HandleChildExit(event supervisor.ExitEvent) {
	rec, ok := c.roster.ByProcessID(event.PID)
	if !ok {
		return
	}
	rec.ProcessID = 0

	if event.Kind == supervisor.ExitLaunchError {
		rec.LaunchError = true
		rec.Label = "Launch error!"
		c.notifier.ClientLabel(rec)
	}

	if rec.PendingCmd == client.PendingQuit {
		rec.ClearPending()
		c.removeClient(rec)
		return
	}

	rec.ClearPending()
	rec.Status = client.StatusStopped
	c.notifier.ClientStatus(rec)
}

// drainChildExits polls the supervisor once and drives every observed
// exit through HandleChildExit; it does not itself block.
func (c *Controller) drainChildExits() {
	for _, event := range c.supervisor.Drain(0) {
		c.HandleChildExit(event)
	}
	for _, pid := range c.supervisor.Sweep() {
		c.HandleChildExit(supervisor.ExitEvent{PID: pid, Kind: supervisor.ExitAbnormal})
	}
}

// PollChildExits is drainChildExits exposed for the daemon's main loop
// to call once per iteration, alongside draining the transport
// dispatcher (spec.md §9's event loop).
func (c *Controller) PollChildExits() {
	c.drainChildExits()
}

// Quit implements /nsm/server/quit: command every client in the roster
// to quit and reply "Bye." to the sender. It does not stop the daemon
// process; cmd/nsmd's main loop keeps running until it receives SIGINT
// or SIGTERM. It does not wait for in-flight save
// replies before returning (spec.md §9, Open Question (b)) — callers
// that need durability should Save first.
func (c *Controller) Quit(from *net.UDPAddr) {
	for _, rec := range c.roster.All() {
		c.commandQuit(rec)
	}
	if from != nil {
		c.reply(from, "/nsm/server/quit", "Bye.")
	}
}
