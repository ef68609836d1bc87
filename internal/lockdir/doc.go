// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lockdir implements the per-host lock and discovery layout
// described in spec.md §4.2:
//
//	<run_root>/nsm/
//	<run_root>/nsm/d/<pid>        file containing the daemon URL
//	<run_root>/nsm/<hash>         session lockfile (session path + URL)
//
// Files are written atomically (temp file + fsync + rename), following
// the teacher repo's watchdog package pattern (bureau/lib/watchdog), so a
// reader never observes a half-written lockfile or advertisement file.
package lockdir
