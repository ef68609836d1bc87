// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package client

import "net"

// Roster is an ordered collection of client records (spec.md §3,
// "Client roster"). Order defines launch order when a session's manifest
// is written and re-read (spec.md §3, "session manifest's order defines
// the launch order on load").
//
// Roster is not safe for concurrent use — it is owned exclusively by the
// session controller's single-threaded main loop (spec.md §5, "Shared
// resources").
type Roster struct {
	records []*Record
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{}
}

// Add appends record to the roster. The caller is responsible for the
// invariant that every live client has a unique ClientID (spec.md §3);
// Add does not check this itself so that callers assembling a roster
// from a trusted manifest during tests are not penalized for doing so in
// a different order than production code would.
func (r *Roster) Add(record *Record) {
	r.records = append(r.records, record)
}

// Remove deletes the record with the given client ID, preserving the
// order of the remaining records. A record whose status is "removed"
// must not be kept in the roster (spec.md §3); callers call Remove after
// setting that status.
func (r *Roster) Remove(id ID) {
	for i, rec := range r.records {
		if rec.ClientID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return
		}
	}
}

// All returns the roster's records in order. The returned slice is owned
// by the caller but its elements (*Record) are still owned by the
// roster — mutate through them, don't store them past the next
// controller operation that might remove them.
func (r *Roster) All() []*Record {
	return append([]*Record(nil), r.records...)
}

// Len returns the number of records currently in the roster.
func (r *Roster) Len() int {
	return len(r.records)
}

// ByProcessID returns the record with the given process id, if running.
func (r *Roster) ByProcessID(pid int) (*Record, bool) {
	if pid == 0 {
		return nil, false
	}
	for _, rec := range r.records {
		if rec.ProcessID == pid {
			return rec, true
		}
	}
	return nil, false
}

// ByClientID returns the record with the given client ID.
func (r *Roster) ByClientID(id ID) (*Record, bool) {
	for _, rec := range r.records {
		if rec.ClientID == id {
			return rec, true
		}
	}
	return nil, false
}

// ByName returns the first record with the given self-reported (or
// executable-basename) name.
func (r *Roster) ByName(name string) (*Record, bool) {
	for _, rec := range r.records {
		if rec.Name == name {
			return rec, true
		}
	}
	return nil, false
}

// ByNameAndID returns the record matching both name and client ID — the
// "exact match" lookup used when reopening a session (spec.md §4.5 step
// 8, "prefer exact name+id match").
func (r *Roster) ByNameAndID(name string, id ID) (*Record, bool) {
	for _, rec := range r.records {
		if rec.Name == name && rec.ClientID == id {
			return rec, true
		}
	}
	return nil, false
}

// ByAddress returns the record whose announced transport address matches
// addr. Used to attribute an inbound /reply, /error, or informational
// message (progress, label, ...) to its sender.
func (r *Roster) ByAddress(addr *net.UDPAddr) (*Record, bool) {
	if addr == nil {
		return nil, false
	}
	for _, rec := range r.records {
		if rec.Address != nil && rec.Address.String() == addr.String() {
			return rec, true
		}
	}
	return nil, false
}

// CountByName returns how many records currently carry the given name.
// Used when tallying desired multiplicity per name during open (spec.md
// §4.5 step 4).
func (r *Roster) CountByName(name string) int {
	count := 0
	for _, rec := range r.records {
		if rec.Name == name {
			count++
		}
	}
	return count
}

// UniqueID generates a fresh client ID guaranteed not to collide with any
// ID already present in the roster (spec.md §8, "collisions are rejected
// on generation").
func (r *Roster) UniqueID() (ID, error) {
	for {
		id, err := NewID()
		if err != nil {
			return "", err
		}
		if _, exists := r.ByClientID(id); !exists {
			return id, nil
		}
	}
}

// PurgeInactive removes every record matching IsCandidateForPurge,
// implementing spec.md §4.3's purge_inactive_clients. Returns the number
// of records removed.
func (r *Roster) PurgeInactive() int {
	kept := r.records[:0:0]
	removed := 0
	for _, rec := range r.records {
		if rec.IsCandidateForPurge() {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	r.records = kept
	return removed
}

// ClearPreExisting resets the PreExisting flag on every record. Called at
// the start of each open sequence before marking survivors (spec.md
// §4.5 step 7).
func (r *Roster) ClearPreExisting() {
	for _, rec := range r.records {
		rec.PreExisting = false
	}
}

// CountResponsive returns how many records satisfy IsResponsive — the
// count wait_for_announce polls against the roster size (spec.md §4.5
// step 9).
func (r *Roster) CountResponsive() int {
	count := 0
	for _, rec := range r.records {
		if rec.IsResponsive() {
			count++
		}
	}
	return count
}

// AnyPendingReply reports whether any active record still has a pending
// command — the condition wait_for_replies polls for (spec.md §4.5
// step 10).
func (r *Roster) AnyPendingReply() bool {
	for _, rec := range r.records {
		if rec.Active && rec.PendingCmd != PendingNone {
			return true
		}
	}
	return false
}
