// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import "net"

// List implements /nsm/server/list (spec.md §4.5): stream each session
// name back as a /reply carrying the request path, terminated by a
// /reply with an empty string sentinel.
func (c *Controller) List(from *net.UDPAddr) *Error {
	sessions, err := c.store.List()
	if err != nil {
		return c.fail(from, "/nsm/server/list", ErrGeneral, err.Error())
	}
	for _, name := range sessions {
		c.reply(from, "/nsm/server/list", name)
	}
	c.reply(from, "/nsm/server/list", "")
	return nil
}
