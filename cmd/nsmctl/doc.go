// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Command nsmctl is the CLI/monitor utility that drives nsmd over the
// same OSC wire protocol (spec.md §1, "out of scope, specified only by
// its interface to the core"). It locates a running daemon via
// NSM_URL, --url, or lockfile discovery, and issues one of a handful of
// one-shot directives, or attaches as a GUI to mirror state changes.
package main
