// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot implements the connection-snapshot engine (spec.md
// §4.7): it watches a port graph for register/unregister events,
// replays a persisted set of intended edges onto the live graph as
// their endpoints appear, and writes the edges it currently knows
// about back to disk.
//
// No JACK cgo binding exists anywhere in the reference corpus, so the
// engine is built against GraphBackend, a small interface the real
// JACK client would implement; internal/snapshot/memory provides an
// in-process test double.
package snapshot
