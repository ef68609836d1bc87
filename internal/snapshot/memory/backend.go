// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package memory provides an in-process snapshot.GraphBackend test
// double, standing in for the cgo JACK client no repo in the reference
// corpus carries.
package memory

import (
	"sync"

	"github.com/ahlstromcj/nsm66d/internal/snapshot"
)

// Backend is a snapshot.GraphBackend entirely in memory. Register and
// Unregister simulate a real client (dis)appearing; Connect/Disconnect
// are driven by the engine under test the same way the real JACK
// backend would drive them.
type Backend struct {
	mutex       sync.Mutex
	ports       map[snapshot.Endpoint]bool
	connections map[snapshot.Endpoint]map[snapshot.Endpoint]bool
	subscribers []func(snapshot.Event)
}

// New returns an empty Backend.
func New() *Backend {
	return &Backend{
		ports:       make(map[snapshot.Endpoint]bool),
		connections: make(map[snapshot.Endpoint]map[snapshot.Endpoint]bool),
	}
}

// Register makes e visible and notifies subscribers, simulating a
// client creating a port.
func (b *Backend) Register(e snapshot.Endpoint) {
	b.mutex.Lock()
	b.ports[e] = true
	subscribers := append([]func(snapshot.Event){}, b.subscribers...)
	b.mutex.Unlock()

	for _, sub := range subscribers {
		sub(snapshot.Event{Kind: snapshot.EventRegistered, Endpoint: e})
	}
}

// Unregister removes e and notifies subscribers, simulating a client
// destroying a port.
func (b *Backend) Unregister(e snapshot.Endpoint) {
	b.mutex.Lock()
	delete(b.ports, e)
	delete(b.connections, e)
	for _, peers := range b.connections {
		delete(peers, e)
	}
	subscribers := append([]func(snapshot.Event){}, b.subscribers...)
	b.mutex.Unlock()

	for _, sub := range subscribers {
		sub(snapshot.Event{Kind: snapshot.EventUnregistered, Endpoint: e})
	}
}

// Ports implements snapshot.GraphBackend.
func (b *Backend) Ports() []snapshot.Endpoint {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	out := make([]snapshot.Endpoint, 0, len(b.ports))
	for e := range b.ports {
		out = append(out, e)
	}
	return out
}

// Connections implements snapshot.GraphBackend.
func (b *Backend) Connections(e snapshot.Endpoint) []snapshot.Endpoint {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	peers := b.connections[e]
	out := make([]snapshot.Endpoint, 0, len(peers))
	for peer := range peers {
		out = append(out, peer)
	}
	return out
}

// Connect implements snapshot.GraphBackend.
func (b *Backend) Connect(source, destination snapshot.Endpoint) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if !b.ports[source] || !b.ports[destination] {
		return errNoSuchPort
	}
	if b.connections[source] != nil && b.connections[source][destination] {
		return snapshot.ErrAlreadyConnected
	}
	if b.connections[source] == nil {
		b.connections[source] = make(map[snapshot.Endpoint]bool)
	}
	b.connections[source][destination] = true
	return nil
}

// Disconnect implements snapshot.GraphBackend.
func (b *Backend) Disconnect(source, destination snapshot.Endpoint) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.connections[source] == nil || !b.connections[source][destination] {
		return snapshot.ErrNotConnected
	}
	delete(b.connections[source], destination)
	return nil
}

// Subscribe implements snapshot.GraphBackend.
func (b *Backend) Subscribe(callback func(snapshot.Event)) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.subscribers = append(b.subscribers, callback)
}

type noSuchPortError struct{}

func (noSuchPortError) Error() string { return "memory: no such port" }

var errNoSuchPort = noSuchPortError{}
