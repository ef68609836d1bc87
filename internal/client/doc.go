// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package client implements the per-client record and roster described
// in spec.md §3–§4.3: a small validated identifier type, the observable
// state of one supervised child process, and an ordered collection of
// such records with on-demand lookups.
//
// Following the teacher repo's "lifetime graph with back-references"
// convention (spec.md §9, grounded on bureau/lib/ref's small validated
// string-wrapper types such as ref.Agent and ref.Machine), a Record is
// exclusively owned by its Roster; lookup tables are never cached.
package client
