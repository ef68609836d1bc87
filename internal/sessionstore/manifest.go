// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"fmt"
	"strings"
)

// ManifestEntry is one line of a session manifest (spec.md §3): a
// client's display name, its launch executable, and its client ID.
type ManifestEntry struct {
	Name       string
	Executable string
	ID         string
}

// ManifestName returns "Name.ID", the per-client project directory name
// used beside the manifest (spec.md §3, "NameWithID").
func (e ManifestEntry) ManifestName() string {
	return e.Name + "." + e.ID
}

// ParseManifest parses a session.nsm file's contents. Each non-blank
// line has the form "name:executable:id"; order is preserved since it
// is significant for client/list and GUI display (spec.md §4.5).
func ParseManifest(data []byte) ([]ManifestEntry, error) {
	var entries []ManifestEntry
	for lineNumber, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("sessionstore: manifest line %d: want 3 colon-separated fields, got %d: %q", lineNumber+1, len(fields), line)
		}
		entries = append(entries, ManifestEntry{Name: fields[0], Executable: fields[1], ID: fields[2]})
	}
	return entries, nil
}

// EncodeManifest renders entries back to session.nsm file contents, one
// "name:executable:id" line per entry in the given order.
func EncodeManifest(entries []ManifestEntry) []byte {
	var builder strings.Builder
	for _, entry := range entries {
		builder.WriteString(entry.Name)
		builder.WriteByte(':')
		builder.WriteString(entry.Executable)
		builder.WriteByte(':')
		builder.WriteString(entry.ID)
		builder.WriteByte('\n')
	}
	return []byte(builder.String())
}
