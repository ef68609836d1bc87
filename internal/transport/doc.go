// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport implements the datagram endpoint described in
// spec.md §4.1: send/receive of OSC messages on a UDP socket, with a
// blocking-with-timeout wait and a non-blocking poll. It also provides a
// single-threaded, cooperative Dispatcher: handlers run to completion
// before the next message is drained, and a handler may send outbound
// messages during its run, but dispatch never re-enters while a handler
// is executing (spec.md §4.1, "Contract").
package transport
