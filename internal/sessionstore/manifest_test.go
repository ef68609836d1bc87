// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessionstore

import (
	"reflect"
	"testing"
)

func TestParseManifestRoundTrip(t *testing.T) {
	entries := []ManifestEntry{
		{Name: "Ardour", Executable: "ardour6", ID: "nABCD"},
		{Name: "Carla", Executable: "carla", ID: "nEFGH"},
	}
	encoded := EncodeManifest(entries)
	parsed, err := ParseManifest(encoded)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if !reflect.DeepEqual(parsed, entries) {
		t.Errorf("round trip = %+v, want %+v", parsed, entries)
	}
}

func TestParseManifestSkipsBlankLines(t *testing.T) {
	data := []byte("Ardour:ardour6:nABCD\n\n\nCarla:carla:nEFGH\n")
	parsed, err := ParseManifest(data)
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("len(parsed) = %d, want 2", len(parsed))
	}
}

func TestParseManifestRejectsMalformedLine(t *testing.T) {
	if _, err := ParseManifest([]byte("not-a-valid-line\n")); err == nil {
		t.Fatal("ParseManifest: expected error for malformed line")
	}
}

func TestManifestNameCombinesNameAndID(t *testing.T) {
	entry := ManifestEntry{Name: "Ardour", Executable: "ardour6", ID: "nABCD"}
	if got, want := entry.ManifestName(), "Ardour.nABCD"; got != want {
		t.Errorf("ManifestName() = %q, want %q", got, want)
	}
}
