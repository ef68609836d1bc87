// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for nsm66d's
// daemon and CLI controller, for settings that are awkward as flags:
// GUI relay defaults, wait-timeout overrides, and discovery directory
// overrides (spec.md §6, SPEC_FULL.md §2.3).
//
// Configuration is loaded from a single optional file via [LoadFile].
// There is no ~/.config discovery and no automatic file search beyond
// the NSM_URL environment variable spec.md §6 already mandates for
// locating a running daemon; this mirrors the teacher's "no hidden
// overrides" stance. A missing file is not an error: [LoadFile] simply
// returns [Default].
//
// Precedence, highest first: flags listed in spec.md §6, then the
// config file, then [Default]. [Config].ApplyFlags implements that
// final merge step.
package config
