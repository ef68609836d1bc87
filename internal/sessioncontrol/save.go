// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"
	"os"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
)

// manifestFromRoster builds the manifest entries to persist, in roster
// order (spec.md §3, "session manifest's order defines the launch
// order on load").
func (c *Controller) manifestFromRoster() []sessionstore.ManifestEntry {
	all := c.roster.All()
	entries := make([]sessionstore.ManifestEntry, 0, len(all))
	for _, rec := range all {
		entries = append(entries, sessionstore.ManifestEntry{
			Name:       rec.Name,
			Executable: rec.Executable,
			ID:         rec.ClientID.String(),
		})
	}
	return entries
}

// manifestIsReadOnly reports whether the session's manifest file exists
// and lacks the owner-write bit (spec.md §4.5, "if the manifest file is
// read-only, clients are not told to save").
func (c *Controller) manifestIsReadOnly() bool {
	info, err := os.Stat(sessionstore.ManifestPath(c.sessionDir))
	if err != nil {
		return false
	}
	return info.Mode().Perm()&0200 == 0
}

// Save implements /nsm/server/save (spec.md §4.5).
func (c *Controller) Save(from *net.UDPAddr) *Error {
	release, err := c.guard.Acquire(OpSave)
	if err != nil {
		return c.failGuard(from, "/nsm/server/save", err)
	}
	defer release()

	if !c.hasSessionOpen() {
		return c.fail(from, "/nsm/server/save", ErrNoSessionOpen, "no session open")
	}

	// Check the existing manifest's mode before writing: os.Rename (the
	// final step of Store.Save) only needs directory write permission and
	// succeeds even over a read-only manifest, leaving a fresh writable
	// file in its place. Checking afterward would always see that fresh
	// file and never detect the read-only case the save started with.
	readOnly := c.manifestIsReadOnly()

	if err := c.store.Save(c.sessionName, c.manifestFromRoster()); err != nil {
		return c.fail(from, "/nsm/server/save", ErrSaveFailed, err.Error())
	}

	if readOnly {
		c.reply(from, "/nsm/server/save", "Session saved (read-only, clients not notified).")
		return nil
	}

	c.commandSaveAllActive()

	if !c.pollUntil(c.replyWait, waitForRepliesPoll, func() bool { return !c.roster.AnyPendingReply() }) {
		c.notifier.Message("some clients did not confirm save within %s", c.replyWait)
	}

	c.reply(from, "/nsm/server/save", "Saved.")
	return nil
}

// commandSaveAllActive sends client/save to every active, non-dumb
// client, and transitions dumb clients straight to noop (spec.md
// §4.3, "dumb client save").
func (c *Controller) commandSaveAllActive() {
	for _, rec := range c.roster.All() {
		if !rec.Active {
			continue
		}
		if rec.IsDumbClient() {
			rec.Status = client.StatusNoop
			c.notifier.ClientStatus(rec)
			continue
		}
		rec.Status = client.StatusSave
		c.notifier.ClientStatus(rec)
		c.setPending(rec, client.PendingSave, "/nsm/client/save")
	}
}

// failGuard translates a Guard.Acquire failure into an OSC /error,
// preserving the ErrOperationPending code the guard already carries.
func (c *Controller) failGuard(from *net.UDPAddr, requestPath string, guardErr error) *Error {
	if ctrlErr, ok := guardErr.(*Error); ok {
		return c.fail(from, requestPath, ctrlErr.Code, ctrlErr.Message)
	}
	return c.fail(from, requestPath, ErrGeneral, guardErr.Error())
}

