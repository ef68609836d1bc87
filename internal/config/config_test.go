// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultMatchesSpecWaitDurations(t *testing.T) {
	cfg := Default()

	cases := []struct {
		name string
		got  func() (time.Duration, error)
		want time.Duration
	}{
		{"AnnounceWait", cfg.AnnounceWaitDuration, 5 * time.Second},
		{"ReplyWait", cfg.ReplyWaitDuration, 60 * time.Second},
		{"KilledClientsWait", cfg.KilledClientsWaitDuration, 10 * time.Second},
	}
	for _, tc := range cases {
		got, err := tc.got()
		if err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLoadFileOnMissingFileReturnsDefault(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Timeouts.AnnounceWait != Default().Timeouts.AnnounceWait {
		t.Errorf("Timeouts.AnnounceWait = %q, want default", cfg.Timeouts.AnnounceWait)
	}
}

func TestLoadFileMergesOntoDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsm66d.yaml")
	contents := "gui:\n  default_url: osc.udp://localhost:7777/\ntimeouts:\n  reply_wait: 90s\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.GUI.DefaultURL != "osc.udp://localhost:7777/" {
		t.Errorf("GUI.DefaultURL = %q", cfg.GUI.DefaultURL)
	}

	reply, err := cfg.ReplyWaitDuration()
	if err != nil {
		t.Fatalf("ReplyWaitDuration: %v", err)
	}
	if reply != 90*time.Second {
		t.Errorf("ReplyWaitDuration() = %v, want 90s", reply)
	}

	announce, err := cfg.AnnounceWaitDuration()
	if err != nil {
		t.Fatalf("AnnounceWaitDuration: %v", err)
	}
	if announce != 5*time.Second {
		t.Errorf("AnnounceWaitDuration() = %v, want unchanged default of 5s", announce)
	}
}

func TestLoadFileRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nsm66d.yaml")
	if err := os.WriteFile(path, []byte("gui: [this is not a mapping"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("LoadFile of malformed YAML succeeded, want error")
	}
}

func TestApplyFlagsOverridesConfigFile(t *testing.T) {
	cfg := Default()
	cfg.GUI.DefaultURL = "osc.udp://localhost:1234/"
	cfg.Discovery.RunRoot = "/from/config"

	cfg.ApplyFlags(FlagOverrides{GUIURL: "osc.udp://localhost:5678/"})

	if cfg.GUI.DefaultURL != "osc.udp://localhost:5678/" {
		t.Errorf("GUI.DefaultURL = %q, want flag value", cfg.GUI.DefaultURL)
	}
	if cfg.Discovery.RunRoot != "/from/config" {
		t.Errorf("Discovery.RunRoot = %q, want unchanged config value", cfg.Discovery.RunRoot)
	}
}

func TestApplyFlagsWithEmptyOverridesLeavesConfigUnchanged(t *testing.T) {
	cfg := Default()
	cfg.GUI.DefaultURL = "osc.udp://localhost:1234/"

	cfg.ApplyFlags(FlagOverrides{})

	if cfg.GUI.DefaultURL != "osc.udp://localhost:1234/" {
		t.Errorf("GUI.DefaultURL = %q, want unchanged", cfg.GUI.DefaultURL)
	}
}

func TestParseDurationRejectsInvalidValue(t *testing.T) {
	cfg := Default()
	cfg.Timeouts.AnnounceWait = "not-a-duration"
	if _, err := cfg.AnnounceWaitDuration(); err == nil {
		t.Error("AnnounceWaitDuration with invalid string succeeded, want error")
	}
}
