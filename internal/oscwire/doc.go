// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oscwire implements the wire codec for the subset of OSC 1.0
// (Open Sound Control) used by the session protocol: a single message per
// UDP datagram, carrying a path, a type-tag string drawn from {s,i,f}, and
// the corresponding typed arguments (spec.md §6, "Wire protocol").
//
// Bundles, timetags, and blob/true/false/nil argument types are not part
// of this protocol and are not implemented — every message here is a bare
// OSC message, matching what nsmd, nsmctl, and the proxy wrapper actually
// exchange.
package oscwire
