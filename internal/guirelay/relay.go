// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package guirelay

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
	"github.com/ahlstromcj/nsm66d/internal/sessioncontrol"
)

// Wire paths for the daemon→GUI state mirror (spec.md §4.6, "/nsm/gui/*
// ... state mirror"). These are not part of the spec-mandated
// client/server wire table in oscreg — the GUI protocol is explicitly
// "(varies)" in spec.md §6 — so they're kept local to this package
// rather than added to the shared registry.
const (
	pathClientNew       = "/nsm/gui/client/new"
	pathClientStatus    = "/nsm/gui/client/status"
	pathClientLabel     = "/nsm/gui/client/label"
	pathClientProgress  = "/nsm/gui/client/progress"
	pathClientDirty     = "/nsm/gui/client/dirty"
	pathClientHasGUI    = "/nsm/gui/client/has_optional_gui"
	pathClientSwitch    = "/nsm/gui/client/switch"
	pathClientRemoved   = "/nsm/gui/client/removed"
	pathSessionName     = "/nsm/gui/session/name"
	pathSessionRoot     = "/nsm/gui/session/root"
	pathServerMessage   = "/nsm/gui/server/message"
)

// Sender is the narrow transport dependency Relay needs — satisfied by
// *transport.Endpoint in production and a fake in tests.
type Sender interface {
	SendTo(addr *net.UDPAddr, msg oscwire.Message) error
}

// AddressSource reports the currently attached GUI's transport address,
// or nil if none is attached. *sessioncontrol.Controller implements
// this via GUIAddress so Relay never keeps its own copy of state the
// controller already owns (spec.md §3, "Shared resources").
type AddressSource interface {
	GUIAddress() *net.UDPAddr
}

// Relay implements sessioncontrol.Notifier by mirroring each event to
// the attached GUI, if any (spec.md §4.6).
type Relay struct {
	sender  Sender
	address AddressSource
	root    string
	logger  *slog.Logger
}

var _ sessioncontrol.Notifier = (*Relay)(nil)

// New returns a Relay that sends mirror messages via sender to whatever
// GUI address is attached. sessionRoot is reported verbatim in the
// welcome payload (spec.md §4.6, "the session root").
func New(sender Sender, address AddressSource, sessionRoot string, logger *slog.Logger) *Relay {
	if logger == nil {
		logger = slog.Default()
	}
	return &Relay{sender: sender, address: address, root: sessionRoot, logger: logger}
}

// SetAddressSource replaces the address source. nsmd's wiring passes
// nil to New because the AddressSource (the controller) and the
// Notifier (this Relay) are each other's dependency — the daemon's
// main wires the controller with this Relay as its notifier, then
// calls SetAddressSource to close the loop.
func (r *Relay) SetAddressSource(address AddressSource) {
	r.address = address
}

func (r *Relay) send(path string, args ...any) {
	addr := r.address.GUIAddress()
	if addr == nil {
		return
	}
	if err := r.sender.SendTo(addr, oscwire.Message{Path: path, Args: args}); err != nil {
		r.logger.Warn("gui relay send failed", "path", path, "error", err)
	}
}

// ClientNew mirrors a freshly launched or re-announced client (spec.md
// §4.3: "emit client/new" at fork+exec, and a second time at announce
// with the upgraded pretty name).
func (r *Relay) ClientNew(rec *client.Record) {
	r.send(pathClientNew, rec.ClientID.String(), rec.Name, rec.Executable)
}

// ClientStatus mirrors every state transition (spec.md §4.6, "Every
// state transition in §4.3 emits client/status").
func (r *Relay) ClientStatus(rec *client.Record) {
	r.send(pathClientStatus, rec.ClientID.String(), string(rec.Status))
}

// ClientLabel mirrors a label update, client-reported or daemon-issued
// at launch (spec.md §4.3: "client/label=\"\"" on fork+exec).
func (r *Relay) ClientLabel(rec *client.Record) {
	r.send(pathClientLabel, rec.ClientID.String(), rec.Label)
}

// ClientDirty mirrors is_dirty/is_clean.
func (r *Relay) ClientDirty(rec *client.Record) {
	r.send(pathClientDirty, rec.ClientID.String(), rec.Dirty)
}

// ClientProgress mirrors a progress update.
func (r *Relay) ClientProgress(rec *client.Record) {
	r.send(pathClientProgress, rec.ClientID.String(), rec.Progress)
}

// ClientSwitch mirrors a :switch: reopen in place (spec.md §4.9
// example 2: "GUI observes client/switch old,new").
func (r *Relay) ClientSwitch(oldID, newID client.ID) {
	r.send(pathClientSwitch, oldID.String(), newID.String())
}

// ClientRemoved mirrors a client leaving the roster.
func (r *Relay) ClientRemoved(rec *client.Record) {
	r.send(pathClientRemoved, rec.ClientID.String())
}

// SessionName mirrors the current session name and relative path,
// including the empty-string pair when no session is open (spec.md
// §4.6).
func (r *Relay) SessionName(name, relativePath string) {
	r.send(pathSessionName, name, relativePath)
}

// Message mirrors a human-readable progress string on the GUI's
// gui_msg channel (spec.md §4.6).
func (r *Relay) Message(format string, args ...any) {
	r.send(pathServerMessage, fmt.Sprintf(format, args...))
}

// Welcome pushes the structured welcome payload spec.md §4.6 describes
// for gui_announce (and, for a cold daemon discovered by the CLI,
// server_announce): session root, current session name and relative
// path, then per client client/new, client/status, an optional
// has_optional_gui, client/label, and — if active — a second client/new
// carrying the pretty name, mirroring the two-phase announce flow.
func (r *Relay) Welcome(sessionName, relativePath string, records []*client.Record) {
	r.send(pathSessionRoot, r.root)
	r.send(pathSessionName, sessionName, relativePath)

	for _, rec := range records {
		r.send(pathClientNew, rec.ClientID.String(), rec.Name, rec.Executable)
		r.send(pathClientStatus, rec.ClientID.String(), string(rec.Status))
		if rec.HasOptionalGUI() {
			r.send(pathClientHasGUI, rec.ClientID.String())
		}
		r.send(pathClientLabel, rec.ClientID.String(), rec.Label)
		if rec.Active {
			r.send(pathClientNew, rec.ClientID.String(), rec.Name, rec.Executable)
		}
	}
}
