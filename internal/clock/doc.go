// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so the session
// controller's wait_for_announce/wait_for_replies/
// wait_for_killed_clients_to_die polling loops (spec.md §5) can be
// driven deterministically in tests instead of racing real sleeps.
package clock
