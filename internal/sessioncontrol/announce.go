// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"
	"strings"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/nsmversion"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
)

// HandleAnnounce processes /nsm/server/announce (spec.md §4.3,
// "announce received"). A client whose reported major API version
// exceeds what this daemon speaks is rejected with incompatible_api
// (spec.md §6, "API version").
func (c *Controller) HandleAnnounce(from *net.UDPAddr, name, capabilities, executable string, apiMajor, apiMinor, pid int32) *Error {
	if int(apiMajor) > nsmversion.APIMajor {
		return c.fail(from, "/nsm/server/announce", ErrIncompatibleAPI, "incompatible API version")
	}

	rec, ok := c.roster.ByProcessID(int(pid))
	if !ok {
		return c.fail(from, "/nsm/server/announce", ErrGeneral, "unexpected announce from unknown process")
	}

	rec.Name = name
	rec.Capabilities = capabilities
	rec.Address = from
	rec.Active = true
	rec.Status = client.StatusOpen
	c.notifier.ClientNew(rec)
	c.notifier.ClientStatus(rec)

	entry := sessionstore.ManifestEntry{Name: rec.Name, Executable: rec.Executable, ID: rec.ClientID.String()}
	projectPath := c.nameWithIDDir(entry)
	c.setPending(rec, client.PendingOpen, "/nsm/client/open", projectPath, c.sessionName, rec.ClientID.String())

	_, relPath := c.relativeSessionPath()
	c.reply(from, "/nsm/server/announce",
		"Howdy, what took you so long?", nsmversion.Banner("nsmd"), relPath)
	return nil
}

// HandleReply processes a /reply addressed to the daemon from a
// client, clearing its pending command and advancing the state machine
// (spec.md §4.3: "/reply to open" and "/reply to save" both resolve to
// ready).
func (c *Controller) HandleReply(from *net.UDPAddr, requestPath string, args []any) {
	rec, ok := c.roster.ByAddress(from)
	if !ok {
		return
	}
	rec.ClearPending()
	switch requestPath {
	case "/nsm/client/open", "/nsm/client/save":
		rec.Status = client.StatusReady
		c.notifier.ClientStatus(rec)
	}
}

// HandleError processes an /error addressed to the daemon from a
// client (spec.md §4.3, "/error on any").
func (c *Controller) HandleError(from *net.UDPAddr, requestPath string, code int32, message string) {
	rec, ok := c.roster.ByAddress(from)
	if !ok {
		return
	}
	rec.ReplyErrCode = code
	rec.ReplyMessage = message
	rec.ClearPending()
	rec.Status = client.StatusError
	c.notifier.ClientStatus(rec)
}

// HandleLabel processes /nsm/client/label.
func (c *Controller) HandleLabel(from *net.UDPAddr, label string) {
	if rec, ok := c.roster.ByAddress(from); ok {
		rec.Label = label
		c.notifier.ClientLabel(rec)
	}
}

// HandleProgress processes /nsm/client/progress.
func (c *Controller) HandleProgress(from *net.UDPAddr, progress float32) {
	if rec, ok := c.roster.ByAddress(from); ok {
		rec.Progress = progress
		c.notifier.ClientProgress(rec)
	}
}

// HandleDirty processes /nsm/client/is_dirty and /nsm/client/is_clean.
func (c *Controller) HandleDirty(from *net.UDPAddr, dirty bool) {
	if rec, ok := c.roster.ByAddress(from); ok {
		rec.Dirty = dirty
		c.notifier.ClientDirty(rec)
	}
}

// HandleOptionalGUIVisibility processes
// /nsm/client/gui_is_shown|gui_is_hidden.
func (c *Controller) HandleOptionalGUIVisibility(from *net.UDPAddr, visible bool) {
	if rec, ok := c.roster.ByAddress(from); ok {
		rec.GUIVisible = visible
	}
}

// HandleMessage processes /nsm/client/message, a free-form
// human-readable progress string mirrored to the GUI as
// server/message (spec.md §4.6).
func (c *Controller) HandleMessage(from *net.UDPAddr, priority int32, text string) {
	if _, ok := c.roster.ByAddress(from); !ok {
		return
	}
	c.notifier.Message("%s", text)
}

// Add implements /nsm/server/add: launches executable as a new dumb
// client of the current session without requiring a pre-existing
// manifest entry (spec.md §6, server/add).
func (c *Controller) Add(from *net.UDPAddr, executable string) *Error {
	if !c.hasSessionOpen() {
		return c.fail(from, "/nsm/server/add", ErrNoSessionOpen, "no session open")
	}
	if strings.ContainsRune(executable, '/') {
		return c.fail(from, "/nsm/server/add", ErrLaunchFailed, "Paths not permitted; clients must be in $PATH")
	}

	id, err := c.roster.UniqueID()
	if err != nil {
		return c.fail(from, "/nsm/server/add", ErrLaunchFailed, err.Error())
	}
	entry := sessionstore.ManifestEntry{Name: baseName(executable), Executable: executable, ID: id.String()}
	if _, err := c.launch(entry); err != nil {
		return c.fail(from, "/nsm/server/add", ErrLaunchFailed, err.Error())
	}
	c.reply(from, "/nsm/server/add", "Launched.")
	return nil
}

func baseName(executable string) string {
	for i := len(executable) - 1; i >= 0; i-- {
		if executable[i] == '/' {
			return executable[i+1:]
		}
	}
	return executable
}
