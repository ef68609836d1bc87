// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec wraps github.com/fxamacker/cbor/v2 with the encoding
// options internal/adminsock's request/response protocol needs:
// deterministic output (sorted map keys, smallest integer encoding) so
// the same value always produces the same bytes, and a RawMessage type
// for deferring decode of an action's payload until its name is known.
package codec
