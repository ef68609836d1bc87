// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import "sync"

// Operation names the global pending operation (spec.md §3, §4.5).
type Operation string

const (
	OpNone      Operation = ""
	OpSave      Operation = "save"
	OpOpen      Operation = "open"
	OpClose     Operation = "close"
	OpDuplicate Operation = "duplicate"
	OpNew       Operation = "new"
	OpAbort     Operation = "abort"
)

// Guard is the single global pending-operation slot (spec.md §3, §9):
// "effectively a 1-slot semaphore". Acquire sets the slot; Release,
// deferred by every caller on every exit path, clears it.
type Guard struct {
	mu      sync.Mutex
	current Operation
}

// Acquire claims the slot for op, failing with ErrOperationPending if
// another operation already holds it. On success it returns a release
// function the caller must defer immediately.
func (g *Guard) Acquire(op Operation) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current != OpNone {
		return nil, NewError(ErrOperationPending, "another session operation is in progress")
	}
	g.current = op
	return g.release, nil
}

func (g *Guard) release() {
	g.mu.Lock()
	g.current = OpNone
	g.mu.Unlock()
}

// Current reports the operation currently holding the slot, or OpNone.
func (g *Guard) Current() Operation {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}
