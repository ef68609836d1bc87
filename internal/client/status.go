// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

// Status is the observable lifecycle state surfaced to the GUI via
// client/status (spec.md §4.3).
type Status string

const (
	StatusLaunch   Status = "launch"
	StatusOpen     Status = "open"
	StatusReady    Status = "ready"
	StatusSave     Status = "save"
	StatusQuit     Status = "quit"
	StatusStopped  Status = "stopped"
	StatusRemoved  Status = "removed"
	StatusError    Status = "error"
	StatusSwitch   Status = "switch"
	StatusNoop     Status = "noop"
)

// PendingCommand is the last directive issued to a client that is still
// awaiting a reply (spec.md §3).
type PendingCommand string

const (
	PendingNone      PendingCommand = "none"
	PendingStart     PendingCommand = "start"
	PendingOpen      PendingCommand = "open"
	PendingSave      PendingCommand = "save"
	PendingQuit      PendingCommand = "quit"
	PendingKill      PendingCommand = "kill"
	PendingDuplicate PendingCommand = "duplicate"
	PendingNew       PendingCommand = "new"
	PendingClose     PendingCommand = "close"
)
