// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package adminsock serves a local debugging/operations socket
// alongside the daemon's OSC wire protocol (SPEC_FULL.md §5.2). It is
// not part of the OSC protocol spec.md §6 defines and changes no
// client-visible behavior; nsmctl's OSC path remains the spec-mandated
// way to control and inspect a running daemon. Two actions are
// registered: "status" (a roster/session snapshot) and "ping".
//
// The wire protocol is a single CBOR request per connection followed
// by a single CBOR response, then the connection closes — the same
// shape lib/service/socket.go uses, encoded with internal/codec.
package adminsock
