// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package supervisor forks and execs client processes, reaps them
// asynchronously, and classifies their exit as a launch error or a
// normal stop (spec.md §4.4). Go's os/signal.Notify channel is this
// package's signal-pipe: SIGCHLD delivery wakes Drain instead of a
// self-pipe file descriptor, but the effect — non-blocking
// wait-for-any-child until none remains — is the same. A Sweep method
// covers the liveness-probe race the spec calls out: a child that dies
// between the signal being blocked and the pipe being read.
package supervisor
