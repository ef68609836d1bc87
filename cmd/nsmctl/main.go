// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/nsmversion"
	"github.com/ahlstromcj/nsm66d/internal/oscreg"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
	"github.com/ahlstromcj/nsm66d/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// pingTimeout bounds how long --ping and discovery wait for a reply
// before declaring a candidate URL dead (spec.md §5's poll cadence,
// scaled down for an interactive CLI).
const pingTimeout = 2 * time.Second

func run() error {
	var (
		url         string
		doLookup    bool
		nsmdPath    string
		doPing      bool
		doMonitor   bool
		doStop      bool
		action      string
		doClean     bool
		runRoot     string
		showVersion bool
	)

	flag.StringVar(&url, "url", "", "OSC URL of the daemon to control (overrides NSM_URL and --lookup)")
	flag.BoolVar(&doLookup, "lookup", false, "discover a running nsmd via the lock directory instead of NSM_URL")
	flag.StringVar(&nsmdPath, "nsmd-path", "", "path to the nsmd binary to launch if no running daemon is found")
	flag.BoolVar(&doPing, "ping", false, "ping the daemon and report whether it answered")
	flag.BoolVar(&doMonitor, "monitor", false, "attach as a GUI and print state-mirror messages until interrupted")
	flag.BoolVar(&doStop, "stop", false, "tell the daemon to quit")
	flag.StringVar(&action, "action", "", "run one server action before exiting, in the form name[@subject]")
	flag.BoolVar(&doClean, "clean", false, "remove stale daemon advertisement files from the lock directory")
	flag.StringVar(&runRoot, "run-root", "", "override the per-host runtime directory root (default: $XDG_RUNTIME_DIR)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(nsmversion.Banner("nsmctl"))
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	layout, err := lockdir.NewLayout(runRoot)
	if err != nil {
		return fmt.Errorf("preparing lock directory: %w", err)
	}

	if doClean {
		return cleanStaleDaemons(layout, logger)
	}

	endpoint, err := transport.Listen(":0")
	if err != nil {
		return fmt.Errorf("opening a local OSC endpoint: %w", err)
	}
	defer endpoint.Close()

	daemonURL, err := resolveDaemonURL(endpoint, url, doLookup, nsmdPath, layout, logger)
	if err != nil {
		return err
	}
	fmt.Println(daemonURL)

	if doPing {
		return pingDaemon(endpoint, daemonURL)
	}

	if action != "" {
		if err := sendAction(endpoint, daemonURL, action); err != nil {
			return err
		}
	}

	if doStop {
		if err := endpoint.SendToURL(daemonURL, oscwire.Message{Path: oscreg.MustLookup(oscreg.TagServerQuit).Path}); err != nil {
			return fmt.Errorf("sending server/quit: %w", err)
		}
	}

	if doMonitor {
		return monitor(endpoint, daemonURL)
	}

	return nil
}

// resolveDaemonURL implements the discovery order spec.md §6 describes
// for the CLI: --url wins outright; otherwise NSM_URL; otherwise
// --lookup falls back to the lock directory; if nothing is found and
// --nsmd-path was given, a daemon is launched and discovery retried.
func resolveDaemonURL(endpoint *transport.Endpoint, url string, doLookup bool, nsmdPath string, layout *lockdir.Layout, logger *slog.Logger) (string, error) {
	if url != "" {
		return url, nil
	}
	if envURL := os.Getenv("NSM_URL"); envURL != "" && !doLookup {
		return envURL, nil
	}

	ping := lockdir.EndpointPing(endpoint, oscwire.Message{Path: oscreg.MustLookup(oscreg.TagGUIAnnounce).Path}, pingTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	found, err := lockdir.DiscoverDaemon(ctx, layout, ping)
	if err == nil {
		return found, nil
	}

	if nsmdPath == "" {
		return "", fmt.Errorf("no running nsmd found and --nsmd-path not given: %w", err)
	}

	logger.Info("no running daemon found, launching one", "nsmd_path", nsmdPath)
	cmd := exec.Command(nsmdPath, "--gui-url", endpoint.URL())
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("launching %s: %w", nsmdPath, err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		found, err := lockdir.DiscoverDaemon(ctx, layout, ping)
		cancel()
		if err == nil {
			return found, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return "", fmt.Errorf("launched %s but it never became responsive", nsmdPath)
}

func pingDaemon(endpoint *transport.Endpoint, daemonURL string) error {
	ping := lockdir.EndpointPing(endpoint, oscwire.Message{Path: oscreg.MustLookup(oscreg.TagGUIAnnounce).Path}, pingTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := ping(ctx, daemonURL); err != nil {
		return fmt.Errorf("daemon did not answer: %w", err)
	}
	fmt.Println("alive")
	return nil
}

// sendAction parses "name[@subject]" and sends the matching
// /nsm/server/* request, mirroring the original nsmctl's --action
// (see _examples/original_source/src/nsmctl/nsmctl.cpp). Only the
// server-side actions are supported — client actions (kill, etc.) are
// part of the out-of-scope CLI surface spec.md §1 does not ask this
// core to implement.
func sendAction(endpoint *transport.Endpoint, daemonURL, action string) error {
	name, subject, _ := strings.Cut(action, "@")

	var entry oscreg.Entry
	var ok bool
	for _, tag := range []oscreg.Tag{
		oscreg.TagServerSave, oscreg.TagServerOpen, oscreg.TagServerNew,
		oscreg.TagServerDuplicate, oscreg.TagServerClose, oscreg.TagServerAbort,
		oscreg.TagServerList, oscreg.TagServerAdd,
	} {
		candidate := oscreg.MustLookup(tag)
		if strings.HasSuffix(candidate.Path, "/"+name) {
			entry, ok = candidate, true
			break
		}
	}
	if !ok {
		return fmt.Errorf("unknown server action %q", name)
	}

	var args []any
	if entry.NeedsArgs {
		if subject == "" {
			return fmt.Errorf("action %q requires a subject (name@subject)", name)
		}
		args = []any{subject}
	}
	if err := endpoint.SendToURL(daemonURL, oscwire.Message{Path: entry.Path, Args: args}); err != nil {
		return fmt.Errorf("sending %s: %w", entry.Path, err)
	}
	return nil
}

// monitor announces as a GUI and prints every /nsm/gui/* mirror message
// until interrupted (spec.md §4.6).
func monitor(endpoint *transport.Endpoint, daemonURL string) error {
	if err := endpoint.SendToURL(daemonURL, oscwire.Message{Path: "/nsm/gui/gui_announce"}); err != nil {
		return fmt.Errorf("announcing as gui: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("monitoring, press Ctrl-C to stop")
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		received, err := endpoint.Wait(500 * time.Millisecond)
		if err != nil {
			continue
		}
		printMirrorMessage(received)
	}
}

func printMirrorMessage(received transport.Received) {
	fmt.Printf("%s %v\n", received.Message.Path, received.Message.Args)
}

// cleanStaleDaemons removes daemon advertisement files whose process is
// no longer reachable. This is local housekeeping, not part of the OSC
// wire protocol (spec.md §6, "--clean ... BE CAREFUL").
func cleanStaleDaemons(layout *lockdir.Layout, logger *slog.Logger) error {
	daemons, err := layout.ListDaemons()
	if err != nil {
		return fmt.Errorf("listing daemon advertisement files: %w", err)
	}
	for pid, url := range daemons {
		if probePID(pid) {
			continue
		}
		if err := layout.RemoveDaemonFile(pid); err != nil {
			logger.Warn("failed to remove stale daemon file", "pid", pid, "url", url, "error", err)
			continue
		}
		fmt.Printf("removed stale daemon file for pid %d (%s)\n", pid, url)
	}
	return nil
}

func probePID(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
