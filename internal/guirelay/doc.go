// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package guirelay mirrors session-controller state to an attached GUI
// peer over the daemon's OSC transport (spec.md §4.6). It implements
// sessioncontrol.Notifier; the controller calls it the same way it
// would call any other client's mirror, and it never feeds back into
// the controller's own state.
package guirelay
