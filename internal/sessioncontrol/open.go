// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
)

// Open implements /nsm/server/open (spec.md §4.5).
func (c *Controller) Open(from *net.UDPAddr, name string) *Error {
	release, guardErr := c.guard.Acquire(OpOpen)
	if guardErr != nil {
		return c.failGuard(from, "/nsm/server/open", guardErr)
	}
	defer release()

	if err := sessionstore.ValidateName(name); err != nil {
		return c.fail(from, "/nsm/server/open", ErrCreateFailed, err.Error())
	}

	// Step 1: if a session is open, save it in place before switching.
	if c.hasSessionOpen() {
		if err := c.store.Save(c.sessionName, c.manifestFromRoster()); err != nil {
			c.logger.Warn("save before open failed", "session", c.sessionName, "error", err)
		}
	}

	// Step 2: validate target has a manifest.
	if !c.store.Exists(name) {
		return c.fail(from, "/nsm/server/open", ErrNoSuchFile, "no such session: "+name)
	}

	targetDir := c.store.Path(name)
	simpleName, absolutePath := sessionstore.LockLayoutKey(targetDir)
	if c.lockLayout.IsLocked(simpleName, absolutePath) {
		return c.fail(from, "/nsm/server/open", ErrSessionLocked, "session is locked: "+name)
	}

	// Step 3: parse desired manifest.
	desired, err := c.store.Load(name)
	if err != nil {
		return c.fail(from, "/nsm/server/open", ErrCreateFailed, err.Error())
	}

	// Step 4: tally desired multiplicity per name.
	desiredCount := map[string]int{}
	for _, entry := range desired {
		desiredCount[entry.Name]++
	}

	// Step 5: decide which current clients must quit.
	satisfied := map[string]int{}
	var toQuit []*client.Record
	for _, rec := range c.roster.All() {
		if !rec.CanSwitch() || desiredCount[rec.Name] == 0 || satisfied[rec.Name] >= desiredCount[rec.Name] {
			toQuit = append(toQuit, rec)
			continue
		}
		satisfied[rec.Name]++
	}
	for _, rec := range toQuit {
		c.commandQuit(rec)
	}

	// Step 6: wait for quitting clients to die, then purge.
	c.waitForKilledClientsToDie(toQuit)
	c.roster.PurgeInactive()

	// Step 7: mark survivors pre-existing.
	c.roster.ClearPreExisting()
	for _, rec := range c.roster.All() {
		rec.PreExisting = true
	}

	// Step 8: match desired entries against survivors, switch or launch.
	for i, entry := range desired {
		if rec, ok := c.roster.ByNameAndID(entry.Name, client.ID(entry.ID)); ok && rec.PreExisting {
			c.switchClient(rec, name, targetDir, entry)
			continue
		}
		if rec, ok := c.roster.ByName(entry.Name); ok && rec.PreExisting && rec.CanSwitch() && rec.PendingCmd == client.PendingNone {
			c.switchClient(rec, name, targetDir, entry)
			continue
		}
		if _, err := c.launch(entry); err != nil {
			c.logger.Warn("launch failed during open", "executable", entry.Executable, "error", err)
		}
		if i != len(desired)-1 {
			// Transport library port reuse workaround (spec.md §9):
			// compensates for UDP port derivation from coarse-grained
			// time on peer libraries. Our transport uses kernel-assigned
			// ports, but the delay is kept for behavioral fidelity.
			c.clock.Sleep(interLaunchDelay)
		}
	}

	c.sessionName = name
	c.sessionDir = targetDir

	// Step 9: wait for announce.
	c.pollUntil(c.announceWait, waitForAnnouncePoll, func() bool {
		return c.roster.CountResponsive() == c.roster.Len()
	})

	// Step 10: wait for replies.
	c.pollUntil(c.replyWait, waitForRepliesPoll, func() bool {
		return !c.roster.AnyPendingReply()
	})

	// Step 11: broadcast session_is_loaded.
	for _, rec := range c.roster.All() {
		if rec.Active {
			c.send(rec, "/nsm/client/session_is_loaded")
		}
	}

	// Step 12: write the session lockfile.
	lockContent := lockdir.LockContent{SessionPath: absolutePath, URL: c.sender.LocalURL()}
	if err := c.lockLayout.WriteLock(simpleName, absolutePath, lockContent); err != nil {
		c.logger.Warn("writing session lockfile failed", "session", name, "error", err)
	}

	relName, relPath := c.relativeSessionPath()
	c.notifier.SessionName(relName, relPath)
	c.reply(from, "/nsm/server/open", "Loaded.")
	return nil
}

// switchClient re-issues client/open in place for a :switch:-capable
// client instead of restarting its process (spec.md §4.3, "switch
// directive").
func (c *Controller) switchClient(rec *client.Record, sessionName, sessionDir string, entry sessionstore.ManifestEntry) {
	oldID := rec.ClientID
	newID, err := client.ParseID(entry.ID)
	if err != nil {
		newID = oldID
	}
	rec.ClientID = newID
	rec.Status = client.StatusSwitch
	c.notifier.ClientStatus(rec)
	c.notifier.ClientSwitch(oldID, newID)

	projectPath := sessionstore.ClientDir(sessionDir, entry)
	c.setPending(rec, client.PendingOpen, "/nsm/client/open", projectPath, entry.Name, newID.String())
}
