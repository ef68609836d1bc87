// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import "testing"

func TestEventRingDrainReturnsInOrderAndClears(t *testing.T) {
	r := NewEventRing(4)
	r.Push(Event{Kind: EventRegistered, Endpoint: "a"})
	r.Push(Event{Kind: EventRegistered, Endpoint: "b"})
	r.Push(Event{Kind: EventUnregistered, Endpoint: "a"})

	got := r.Drain()
	if len(got) != 3 {
		t.Fatalf("len(Drain()) = %d, want 3", len(got))
	}
	want := []Endpoint{"a", "b", "a"}
	for i, e := range got {
		if e.Endpoint != want[i] {
			t.Errorf("got[%d].Endpoint = %q, want %q", i, e.Endpoint, want[i])
		}
	}

	if drained := r.Drain(); drained != nil {
		t.Errorf("second Drain() = %v, want nil", drained)
	}
}

func TestEventRingOverwritesOldestWhenFull(t *testing.T) {
	r := NewEventRing(2)
	r.Push(Event{Endpoint: "a"})
	r.Push(Event{Endpoint: "b"})
	r.Push(Event{Endpoint: "c"})

	got := r.Drain()
	if len(got) != 2 {
		t.Fatalf("len(Drain()) = %d, want 2", len(got))
	}
	if got[0].Endpoint != "b" || got[1].Endpoint != "c" {
		t.Errorf("Drain() = %v, want [b c]", got)
	}
}

func TestNewEventRingDefaultsCapacityWhenNonPositive(t *testing.T) {
	r := NewEventRing(0)
	if r.capacity != DefaultEventRingCapacity {
		t.Errorf("capacity = %d, want %d", r.capacity, DefaultEventRingCapacity)
	}
}
