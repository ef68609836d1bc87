// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"errors"
	"log/slog"
)

// ErrAlreadyConnected is returned by GraphBackend.Connect when the edge
// already exists. The engine treats it as success (spec.md §4.7,
// "EEXIST is success").
var ErrAlreadyConnected = errors.New("snapshot: edge already connected")

// ErrNotConnected is returned by GraphBackend.Disconnect when the edge
// does not exist. The engine treats it as success.
var ErrNotConnected = errors.New("snapshot: edge not connected")

// Edge is one intended connection between two endpoints. It is
// remembered even when one of its endpoints is not currently live
// (spec.md §4.7: "the edge is remembered, not deleted").
type Edge struct {
	Source      Endpoint
	Destination Endpoint
	Active      bool
}

// Engine owns the set of endpoints currently known to be live and the
// set of intended edges, and drives both from the events a GraphBackend
// delivers (spec.md §4.7).
type Engine struct {
	backend GraphBackend
	ring    *EventRing
	logger  *slog.Logger

	known    map[Endpoint]bool
	intended []Edge
}

// New returns an Engine driving backend. logger defaults to
// slog.Default if nil.
func New(backend GraphBackend, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		backend: backend,
		ring:    NewEventRing(DefaultEventRingCapacity),
		logger:  logger,
		known:   make(map[Endpoint]bool),
	}
}

// Start subscribes to the backend's event callback. The callback itself
// only appends to the ring (spec.md §4.7: must not allocate or take
// locks held by the main loop) — actually acting on an event happens
// later, in Drain, from the main loop's own goroutine.
func (e *Engine) Start() {
	for _, port := range e.backend.Ports() {
		e.known[port] = true
	}
	e.backend.Subscribe(func(event Event) {
		e.ring.Push(event)
	})
}

// AddIntendedEdge records a new intended connection, e.g. from a
// restored snapshot or an explicit nsmctl request. If both endpoints
// are already known, activation is attempted immediately; otherwise it
// happens the next time Drain observes the missing endpoint register.
func (e *Engine) AddIntendedEdge(source, destination Endpoint) {
	e.intended = append(e.intended, Edge{Source: source, Destination: destination})
	e.tryActivate(source)
}

// Edges returns a copy of the engine's current intended-edge list.
func (e *Engine) Edges() []Edge {
	out := make([]Edge, len(e.intended))
	copy(out, e.intended)
	return out
}

// Drain processes every event buffered in the ring since the last call
// (spec.md §4.7, "The main loop drains the ring on each wake"):
// registering an endpoint attempts activation of any intended edge now
// satisfiable; unregistering one marks its edges inactive without
// forgetting them.
func (e *Engine) Drain() {
	for _, event := range e.ring.Drain() {
		switch event.Kind {
		case EventRegistered:
			e.known[event.Endpoint] = true
			e.tryActivate(event.Endpoint)
		case EventUnregistered:
			delete(e.known, event.Endpoint)
			e.deactivate(event.Endpoint)
		}
	}
}

func (e *Engine) tryActivate(touched Endpoint) {
	for i := range e.intended {
		edge := &e.intended[i]
		if edge.Active {
			continue
		}
		if edge.Source != touched && edge.Destination != touched {
			continue
		}
		if !e.known[edge.Source] || !e.known[edge.Destination] {
			continue
		}
		if err := e.backend.Connect(edge.Source, edge.Destination); err != nil && !errors.Is(err, ErrAlreadyConnected) {
			e.logger.Warn("snapshot: activating edge failed", "source", edge.Source, "destination", edge.Destination, "error", err)
			continue
		}
		edge.Active = true
	}
}

func (e *Engine) deactivate(touched Endpoint) {
	for i := range e.intended {
		edge := &e.intended[i]
		if edge.Source == touched || edge.Destination == touched {
			edge.Active = false
		}
	}
}
