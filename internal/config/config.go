// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the optional settings file for nsm66d's daemon and CLI
// controller (SPEC_FULL.md §2.3).
type Config struct {
	// GUI configures the default GUI relay peer.
	GUI GUIConfig `yaml:"gui"`

	// Timeouts overrides the wait-loop durations spec.md §4.5 defines.
	Timeouts TimeoutsConfig `yaml:"timeouts"`

	// Discovery overrides where session locks and daemon advertisement
	// files live (spec.md §4.2).
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// GUIConfig configures the GUI relay's default peer.
type GUIConfig struct {
	// DefaultURL is the GUI's OSC URL to attach at startup when
	// --gui-url is not given. Empty means no GUI is attached until one
	// announces itself.
	DefaultURL string `yaml:"default_url"`
}

// TimeoutsConfig overrides the daemon's wait-loop durations. Fields are
// Go duration strings (e.g. "5s"); empty means use the built-in default.
type TimeoutsConfig struct {
	AnnounceWait      string `yaml:"announce_wait"`
	ReplyWait         string `yaml:"reply_wait"`
	KilledClientsWait string `yaml:"killed_clients_wait"`
}

// DiscoveryConfig overrides the per-host runtime directory layout
// (spec.md §4.2). Empty means use lockdir's built-in default root.
type DiscoveryConfig struct {
	RunRoot string `yaml:"run_root"`
}

// Default returns the built-in defaults, matching the wait-loop
// durations spec.md §4.5 specifies.
func Default() *Config {
	return &Config{
		Timeouts: TimeoutsConfig{
			AnnounceWait:      "5s",
			ReplyWait:         "60s",
			KilledClientsWait: "10s",
		},
	}
}

// LoadFile reads path and merges it onto [Default]. A missing file is
// not an error — it returns [Default] unchanged, since the config file
// is entirely optional (SPEC_FULL.md §2.3).
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// AnnounceWaitDuration parses Timeouts.AnnounceWait.
func (c *Config) AnnounceWaitDuration() (time.Duration, error) {
	return parseDuration(c.Timeouts.AnnounceWait)
}

// ReplyWaitDuration parses Timeouts.ReplyWait.
func (c *Config) ReplyWaitDuration() (time.Duration, error) {
	return parseDuration(c.Timeouts.ReplyWait)
}

// KilledClientsWaitDuration parses Timeouts.KilledClientsWait.
func (c *Config) KilledClientsWaitDuration() (time.Duration, error) {
	return parseDuration(c.Timeouts.KilledClientsWait)
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	return d, nil
}

// FlagOverrides carries the subset of spec.md §6 flags that shadow this
// config's fields. A zero value for any field means "flag not given" —
// ApplyFlags leaves the config's existing value in place.
type FlagOverrides struct {
	GUIURL  string
	RunRoot string
}

// ApplyFlags overlays flag values onto cfg, implementing the
// flags-over-config-over-defaults precedence SPEC_FULL.md §2.3 requires.
func (c *Config) ApplyFlags(flags FlagOverrides) {
	if flags.GUIURL != "" {
		c.GUI.DefaultURL = flags.GUIURL
	}
	if flags.RunRoot != "" {
		c.Discovery.RunRoot = flags.RunRoot
	}
}
