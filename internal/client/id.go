// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"crypto/rand"
	"fmt"
	"regexp"
)

// ID is a client's short opaque identifier: the letter "n" followed by
// four upper-case letters (spec.md §3), a 26^4 namespace. IDs are
// generated on creation and must be unique within the live roster; once
// assigned to a manifest slot, an ID is never rewritten.
type ID string

var idPattern = regexp.MustCompile(`^n[A-Z]{4}$`)

// Valid reports whether id matches the required pattern n[A-Z]{4}.
func (id ID) Valid() bool {
	return idPattern.MatchString(string(id))
}

// String returns id as a plain string.
func (id ID) String() string {
	return string(id)
}

// ParseID validates s as a client ID, returning an error if it does not
// match the n[A-Z]{4} pattern.
func ParseID(s string) (ID, error) {
	id := ID(s)
	if !id.Valid() {
		return "", fmt.Errorf("client: %q is not a valid client id (want n[A-Z]{4})", s)
	}
	return id, nil
}

// NewID generates a random, validly-formed client ID. It does not check
// for collisions against any roster — callers must call Roster.UniqueID
// (or otherwise verify uniqueness) before assigning a generated ID to a
// new record, per spec.md §8: "collisions are rejected on generation."
func NewID() (ID, error) {
	var letters [4]byte
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("client: generating random id: %w", err)
	}
	for i, b := range buf {
		letters[i] = 'A' + (b % 26)
	}
	return ID("n" + string(letters[:])), nil
}
