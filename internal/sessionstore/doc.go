// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessionstore implements the persisted session manifest and
// session directory described in spec.md §3 and §6: one manifest line
// per client ("name:executable:id"), the per-client project
// subdirectories beside it, and a depth-first walk of the session root
// that treats any directory containing a manifest as a leaf session.
package sessionstore
