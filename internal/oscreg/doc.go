// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package oscreg is the static message registry described in spec.md
// §4.1: a table mapping a symbolic tag to a fixed OSC path, an argument
// type signature, and a direction, plus a reverse lookup by path.
//
// Handlers register against a Tag (see internal/transport) and receive a
// decoded argument tuple; this package only describes the shape of each
// message, it does not dispatch them.
package oscreg
