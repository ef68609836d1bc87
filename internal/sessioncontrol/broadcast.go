// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"net"
	"strings"

	"github.com/ahlstromcj/nsm66d/internal/oscwire"
)

// SetGUIAddress records the optional GUI peer's transport address so
// Broadcast can relay to it (spec.md §4.6, "Optional controller
// address").
func (c *Controller) SetGUIAddress(addr *net.UDPAddr) {
	c.guiAddr = addr
}

// ClearGUIAddress forgets the GUI peer, e.g. when the GUI socket
// disappears.
func (c *Controller) ClearGUIAddress() {
	c.guiAddr = nil
}

// HandleGUIAnnounce processes /nsm/gui/gui_announce and
// /nsm/gui/server_announce: attaches addr as the GUI peer and pushes
// the full state mirror spec.md §4.6 mandates on attachment — session
// root, current session, and every roster client.
func (c *Controller) HandleGUIAnnounce(addr *net.UDPAddr) {
	c.SetGUIAddress(addr)
	name, relative := c.relativeSessionPath()
	c.notifier.Welcome(name, relative, c.roster.All())
}

// GUIAddress returns the attached GUI's transport address, or nil if
// none is attached. Implements guirelay.AddressSource so the relay
// never keeps its own copy of state the controller already owns.
func (c *Controller) GUIAddress() *net.UDPAddr {
	return c.guiAddr
}

// Broadcast implements /nsm/server/broadcast. The wire envelope carries
// the relay path in Args[0] and the payload to forward in Args[1:]
// (oscreg's "" signature for server/broadcast — the real arguments are
// opaque to the registry and live inside the envelope itself); Broadcast
// unwraps that envelope and relays the rebuilt message to every active
// client and the GUI, excluding the sender by transport address, except
// that any relay path beginning with /nsm/ is silently dropped — that
// namespace is reserved for session management and must never be
// forwarded (spec.md §4.5, "Broadcast").
func (c *Controller) Broadcast(from *net.UDPAddr, msg oscwire.Message) {
	if len(msg.Args) == 0 {
		c.logger.Warn("broadcast with no relay path", "from", from)
		return
	}
	toPath, ok := msg.Args[0].(string)
	if !ok {
		c.logger.Warn("broadcast relay path is not a string", "from", from)
		return
	}
	if strings.HasPrefix(toPath, "/nsm/") {
		c.logger.Warn("refusing to broadcast reserved path", "path", toPath)
		return
	}

	relayed := oscwire.Message{Path: toPath, Args: msg.Args[1:]}

	for _, rec := range c.roster.All() {
		if !rec.Active || rec.Address == nil || addrEqual(rec.Address, from) {
			continue
		}
		if err := c.sender.SendTo(rec.Address, relayed); err != nil {
			c.logger.Warn("broadcast send failed", "client", rec.ClientID, "path", toPath, "error", err)
		}
	}

	if c.guiAddr != nil && !addrEqual(c.guiAddr, from) {
		if err := c.sender.SendTo(c.guiAddr, relayed); err != nil {
			c.logger.Warn("broadcast to GUI failed", "path", toPath, "error", err)
		}
	}
}

func addrEqual(a, b *net.UDPAddr) bool {
	if a == nil || b == nil {
		return false
	}
	return a.String() == b.String()
}
