// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import "github.com/ahlstromcj/nsm66d/internal/client"

// ClientStatus is a read-only snapshot of one client record, for
// introspection consumers (internal/adminsock) that must not hold a
// reference to the live *client.Record owned by the controller's
// roster.
type ClientStatus struct {
	ClientID   string
	Name       string
	Executable string
	ProcessID  int
	Status     string
	PendingCmd string
	Active     bool
	Dirty      bool
	Label      string
	Progress   float32
}

// Status is a read-only snapshot of the controller's current session
// and roster, for internal/adminsock's "status" action.
type Status struct {
	SessionName string
	SessionDir  string
	Clients     []ClientStatus
}

// Status returns a snapshot of the controller's current state. Safe to
// call from outside the controller's owning goroutine only because it
// does not mutate anything and copies every field it reads; adminsock's
// server still must serialize calls into the single-threaded loop the
// same way every other Controller method requires (SPEC_FULL.md §5.2).
func (c *Controller) Status() Status {
	clients := make([]ClientStatus, 0, c.roster.Len())
	for _, rec := range c.roster.All() {
		clients = append(clients, clientStatusOf(rec))
	}
	return Status{
		SessionName: c.sessionName,
		SessionDir:  c.sessionDir,
		Clients:     clients,
	}
}

func clientStatusOf(rec *client.Record) ClientStatus {
	return ClientStatus{
		ClientID:   rec.ClientID.String(),
		Name:       rec.Name,
		Executable: rec.Executable,
		ProcessID:  rec.ProcessID,
		Status:     string(rec.Status),
		PendingCmd: string(rec.PendingCmd),
		Active:     rec.Active,
		Dirty:      rec.Dirty,
		Label:      rec.Label,
		Progress:   rec.Progress,
	}
}
