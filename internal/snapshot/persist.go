// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Directional markers used between the two endpoint names on a line
// (spec.md §4.7). "|>" and ">" both mean source -> destination; "<"
// means destination -> source and is accepted on read but never
// written; "|" means bidirectional and expands to two edges.
const (
	markerForward       = "|>"
	markerForwardShort  = ">"
	markerBackward      = "<"
	markerBidirectional = "|"
)

// Persist writes the engine's intended edges to path using the
// .jackpatch-style "source |> destination" line format, one edge per
// line, sorted lexicographically (spec.md §4.7).
//
// Before rebuilding from the live graph, edges whose source endpoint is
// not currently known are retained verbatim rather than dropped — the
// endpoint may simply not have registered yet this run, and the edge
// must not be forgotten.
func (e *Engine) Persist(path string) error {
	rebuilt := make([]Edge, 0, len(e.intended))
	for _, edge := range e.intended {
		if !e.known[edge.Source] {
			e.logger.Info("snapshot: source endpoint not live, remembering edge rather than forgetting it",
				"source", edge.Source, "destination", edge.Destination)
			rebuilt = append(rebuilt, edge)
		}
	}
	for _, source := range e.backend.Ports() {
		for _, destination := range e.backend.Connections(source) {
			rebuilt = append(rebuilt, Edge{Source: source, Destination: destination, Active: true})
		}
	}

	lines := make([]string, 0, len(rebuilt))
	for _, edge := range rebuilt {
		lines = append(lines, formatEdgeLine(edge))
	}
	sort.Strings(lines)

	e.intended = rebuilt
	return writeLinesAtomic(path, lines)
}

// Restore reads path, written by a prior Persist, and adds each line as
// an intended edge. It does not attempt activation itself — the caller
// should call Drain after the backend reports its initial port list.
func (e *Engine) Restore(path string) error {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("snapshot: restore %s: %w", path, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		edges, err := parseEdgeLine(line)
		if err != nil {
			e.logger.Warn("snapshot: skipping malformed edge line", "line", line, "error", err)
			continue
		}
		e.intended = append(e.intended, edges...)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("snapshot: restore %s: %w", path, err)
	}
	return nil
}

func formatEdgeLine(edge Edge) string {
	return fmt.Sprintf("%s %s %s", edge.Source, markerForward, edge.Destination)
}

// parseEdgeLine parses one "source MARKER destination" line. A
// bidirectional marker expands to two edges.
func parseEdgeLine(line string) ([]Edge, error) {
	for _, marker := range []string{markerForward, markerForwardShort, markerBackward, markerBidirectional} {
		idx := strings.Index(line, " "+marker+" ")
		if idx < 0 {
			continue
		}
		left := Endpoint(strings.TrimSpace(line[:idx]))
		right := Endpoint(strings.TrimSpace(line[idx+len(marker)+2:]))
		if left == "" || right == "" {
			return nil, fmt.Errorf("empty endpoint in %q", line)
		}
		switch marker {
		case markerForward, markerForwardShort:
			return []Edge{{Source: left, Destination: right}}, nil
		case markerBackward:
			return []Edge{{Source: right, Destination: left}}, nil
		case markerBidirectional:
			return []Edge{
				{Source: left, Destination: right},
				{Source: right, Destination: left},
			}, nil
		}
	}
	return nil, fmt.Errorf("no recognized directional marker in %q", line)
}

// writeLinesAtomic writes lines, one per line plus a trailing newline,
// to path via a temp-file-plus-rename so a crash mid-write never leaves
// a truncated snapshot behind. Grounded on lockdir/atomic.go's
// writeFileAtomic pattern; duplicated rather than shared so this
// package stays decoupled from lockdir.
func writeLinesAtomic(path string, lines []string) error {
	dir := filepath.Dir(path)
	temp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tempPath := temp.Name()
	defer os.Remove(tempPath)

	for _, line := range lines {
		if _, err := temp.WriteString(line + "\n"); err != nil {
			temp.Close()
			return fmt.Errorf("snapshot: write %s: %w", tempPath, err)
		}
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return fmt.Errorf("snapshot: sync %s: %w", tempPath, err)
	}
	if err := temp.Close(); err != nil {
		return fmt.Errorf("snapshot: close %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("snapshot: rename %s to %s: %w", tempPath, path, err)
	}

	dirHandle, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("snapshot: open %s: %w", dir, err)
	}
	defer dirHandle.Close()
	if err := dirHandle.Sync(); err != nil {
		return fmt.Errorf("snapshot: sync %s: %w", dir, err)
	}
	return nil
}
