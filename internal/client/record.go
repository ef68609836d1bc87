// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"net"
	"strings"
	"time"
)

// capabilitySwitch and capabilityOptionalGUI are the colon-delimited
// capability tokens this daemon inspects directly; others are passed
// through opaquely (spec.md §6, "Capabilities").
const (
	capabilitySwitch      = ":switch:"
	capabilityOptionalGUI = ":optional-gui:"
)

// Record is the in-memory state of one supervised child process
// (spec.md §3, "Client record"). A Record is owned exclusively by the
// Roster that holds it; nothing outside the session controller mutates
// one directly.
type Record struct {
	ClientID      ID
	Name          string
	Executable    string
	ProcessID     int
	Capabilities  string
	Active        bool
	PendingCmd    PendingCommand
	CommandSentAt time.Time
	Status        Status
	Label         string
	Dirty         bool
	Progress      float32
	GUIVisible    bool
	LaunchError   bool
	ReplyErrCode  int32
	ReplyMessage  string
	Address       *net.UDPAddr

	// PreExisting marks a client that survived into a new session
	// during open (spec.md §4.5 step 7) rather than being freshly
	// launched. Cleared when a new session-open sequence begins.
	PreExisting bool
}

// NewRecord creates a freshly-launched record in the launch state, as
// spec.md §4.3's fork+exec transition describes: a record exists (and is
// inserted into the roster) before the child's capabilities are known.
func NewRecord(id ID, name, executable string) *Record {
	return &Record{
		ClientID:   id,
		Name:       name,
		Executable: executable,
		Status:     StatusLaunch,
		PendingCmd: PendingStart,
	}
}

// NameWithID returns "{name}.{client_id}", used in per-client save
// directories and log lines (spec.md §3).
func (r *Record) NameWithID() string {
	return r.Name + "." + r.ClientID.String()
}

// IsDumbClient reports whether the client has no capabilities at all —
// it never announces and is managed only by start/SIGTERM (GLOSSARY,
// "Dumb client").
func (r *Record) IsDumbClient() bool {
	return r.Capabilities == ""
}

// HasCapability reports whether r's capability string contains the given
// colon-bracketed token, e.g. HasCapability(":switch:").
func (r *Record) HasCapability(token string) bool {
	return strings.Contains(r.Capabilities, token)
}

// CanSwitch reports whether the client advertised :switch:.
func (r *Record) CanSwitch() bool {
	return r.HasCapability(capabilitySwitch)
}

// HasOptionalGUI reports whether the client advertised :optional-gui:.
func (r *Record) HasOptionalGUI() bool {
	return r.HasCapability(capabilityOptionalGUI)
}

// SetPending records a new pending command and stamps CommandSentAt,
// satisfying the invariant that pending_command != none implies
// command_sent_at is set (spec.md §3).
func (r *Record) SetPending(cmd PendingCommand) {
	r.PendingCmd = cmd
	if cmd == PendingNone {
		r.CommandSentAt = time.Time{}
	} else {
		r.CommandSentAt = time.Now()
	}
}

// ClearPending is SetPending(PendingNone).
func (r *Record) ClearPending() {
	r.SetPending(PendingNone)
}

// ReplyAge returns how long the current pending command has been
// outstanding. Used for GUI age reporting (spec.md §3). Returns 0 if no
// command is pending.
func (r *Record) ReplyAge() time.Duration {
	if r.PendingCmd == PendingNone {
		return 0
	}
	return time.Since(r.CommandSentAt)
}

// IsCandidateForPurge reports whether the record matches spec.md §4.3's
// purge_inactive_clients criterion: never became active and has no
// running process.
func (r *Record) IsCandidateForPurge() bool {
	return !r.Active && r.ProcessID == 0
}

// IsResponsive reports whether the client has either announced or
// failed to launch — the condition wait_for_announce polls for
// (spec.md §4.5 step 9).
func (r *Record) IsResponsive() bool {
	return r.Active || r.LaunchError
}
