// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sessioncontrol orchestrates session save/open/close/duplicate/
// new/abort/quit/list/broadcast across a client roster (spec.md §4.5). It
// owns the single in-flight global operation guard and correlates
// per-client replies against the supervisor and transport layers.
package sessioncontrol
