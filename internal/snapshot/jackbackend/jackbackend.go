// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

//go:build jack

// Package jackbackend is where a real JACK client binding would live,
// implementing snapshot.GraphBackend over cgo. No cgo JACK binding
// exists anywhere in the reference corpus this repo was built from, so
// this file only documents the shape the real implementation would
// take; it is excluded from ordinary builds by the "jack" build tag and
// deliberately left unimplemented.
package jackbackend

import "github.com/ahlstromcj/nsm66d/internal/snapshot"

// New would open a JACK client named name and return a GraphBackend
// backed by it. Ports/Connections would call jack_get_ports and
// jack_port_get_all_connections; Connect/Disconnect would call
// jack_connect/jack_disconnect, mapping EEXIST/ENOENT to
// snapshot.ErrAlreadyConnected/snapshot.ErrNotConnected; Subscribe
// would register a jack_set_port_registration_callback that only
// pushes onto the caller's ring buffer, never allocating or blocking on
// JACK's real-time thread.
func New(name string) (snapshot.GraphBackend, error) {
	panic("jackbackend: not implemented in this environment, see package doc")
}
