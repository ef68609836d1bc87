// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"
	"os"

	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
)

// closeCurrent quits every client, waits, purges, removes the
// lockfile, and clears the open-session fields. save selects whether
// the manifest is written first (Close) or not (Abort).
func (c *Controller) closeCurrent(save bool) {
	if !c.hasSessionOpen() {
		return
	}
	if save {
		if err := c.store.Save(c.sessionName, c.manifestFromRoster()); err != nil {
			c.logger.Warn("save before close failed", "session", c.sessionName, "error", err)
		}
	}

	for _, rec := range c.roster.All() {
		c.commandQuit(rec)
	}
	c.waitForKilledClientsToDie(c.roster.All())
	c.roster.PurgeInactive()

	simpleName, absolutePath := sessionstore.LockLayoutKey(c.sessionDir)
	if err := c.lockLayout.DeleteLock(simpleName, absolutePath); err != nil {
		c.logger.Warn("deleting session lockfile failed", "session", c.sessionName, "error", err)
	}

	c.sessionName = ""
	c.sessionDir = ""
	c.notifier.SessionName("", "")
}

// New implements /nsm/server/new (spec.md §4.5).
func (c *Controller) New(from *net.UDPAddr, name string) *Error {
	release, guardErr := c.guard.Acquire(OpNew)
	if guardErr != nil {
		return c.failGuard(from, "/nsm/server/new", guardErr)
	}
	defer release()

	if err := sessionstore.ValidateName(name); err != nil {
		return c.fail(from, "/nsm/server/new", ErrCreateFailed, err.Error())
	}
	if c.store.Exists(name) {
		return c.fail(from, "/nsm/server/new", ErrCreateFailed, "session already exists: "+name)
	}

	if c.hasSessionOpen() {
		c.closeCurrent(true)
	}

	if err := c.store.Create(name); err != nil {
		return c.fail(from, "/nsm/server/new", ErrCreateFailed, err.Error())
	}

	targetDir := c.store.Path(name)
	simpleName, absolutePath := sessionstore.LockLayoutKey(targetDir)
	lockErr := c.writeLock(simpleName, absolutePath)
	if lockErr != nil {
		c.logger.Warn("writing session lockfile failed", "session", name, "error", lockErr)
	}

	c.sessionName = name
	c.sessionDir = targetDir

	relName, relPath := c.relativeSessionPath()
	c.notifier.SessionName(relName, relPath)
	c.reply(from, "/nsm/server/new", "Created.")
	return nil
}

// Duplicate implements /nsm/server/duplicate (spec.md §4.5).
func (c *Controller) Duplicate(from *net.UDPAddr, name string) *Error {
	release, guardErr := c.guard.Acquire(OpDuplicate)
	if guardErr != nil {
		return c.failGuard(from, "/nsm/server/duplicate", guardErr)
	}

	if !c.hasSessionOpen() {
		release()
		return c.fail(from, "/nsm/server/duplicate", ErrNoSessionOpen, "no session open")
	}
	if err := sessionstore.ValidateName(name); err != nil {
		release()
		return c.fail(from, "/nsm/server/duplicate", ErrCreateFailed, err.Error())
	}
	if c.store.Exists(name) {
		release()
		return c.fail(from, "/nsm/server/duplicate", ErrCreateFailed, "Session name already exists")
	}

	if err := c.store.Save(c.sessionName, c.manifestFromRoster()); err != nil {
		release()
		return c.fail(from, "/nsm/server/duplicate", ErrSaveFailed, err.Error())
	}

	sourceDir := c.sessionDir
	targetDir := c.store.Path(name)
	if err := copyDirectory(sourceDir, targetDir); err != nil {
		release()
		return c.fail(from, "/nsm/server/duplicate", ErrCreateFailed, err.Error())
	}

	release()
	return c.Open(from, name)
}

func (c *Controller) writeLock(simpleName, absolutePath string) error {
	content := lockdir.LockContent{SessionPath: absolutePath, URL: c.sender.LocalURL()}
	return c.lockLayout.WriteLock(simpleName, absolutePath, content)
}

// Close implements /nsm/server/close (spec.md §4.5).
func (c *Controller) Close(from *net.UDPAddr) *Error {
	release, guardErr := c.guard.Acquire(OpClose)
	if guardErr != nil {
		return c.failGuard(from, "/nsm/server/close", guardErr)
	}
	defer release()

	if !c.hasSessionOpen() {
		return c.fail(from, "/nsm/server/close", ErrNoSessionOpen, "no session open")
	}
	c.closeCurrent(true)
	c.reply(from, "/nsm/server/close", "Closed.")
	return nil
}

// Abort implements /nsm/server/abort: close without saving (spec.md
// §4.5).
func (c *Controller) Abort(from *net.UDPAddr) *Error {
	release, guardErr := c.guard.Acquire(OpAbort)
	if guardErr != nil {
		return c.failGuard(from, "/nsm/server/abort", guardErr)
	}
	defer release()

	if !c.hasSessionOpen() {
		return c.fail(from, "/nsm/server/abort", ErrNoSessionOpen, "no session open")
	}
	c.closeCurrent(false)
	c.reply(from, "/nsm/server/abort", "Aborted.")
	return nil
}

func copyDirectory(source, dest string) error {
	entries, err := os.ReadDir(source)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0700); err != nil {
		return err
	}
	for _, entry := range entries {
		sourcePath := source + string(os.PathSeparator) + entry.Name()
		destPath := dest + string(os.PathSeparator) + entry.Name()
		if entry.IsDir() {
			if err := copyDirectory(sourcePath, destPath); err != nil {
				return err
			}
			continue
		}
		if err := copyFile(sourcePath, destPath); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(source, dest string) error {
	data, err := os.ReadFile(source)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0600)
}
