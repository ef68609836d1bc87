// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"log/slog"
	"net"
	"path/filepath"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/clock"
	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/oscwire"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
)

// Default wait-loop durations (spec.md §4.5), overridable per Config
// via Timeouts (internal/config, SPEC_FULL.md §2.3, "Timeouts").
const (
	defaultAnnounceWait       = 5 * time.Second
	waitForAnnouncePoll       = 100 * time.Millisecond
	defaultReplyWait          = 60 * time.Second
	waitForRepliesPoll        = 100 * time.Millisecond
	defaultKilledClientsWait  = 10 * time.Second
	waitForKilledClientsPoll  = 1 * time.Second
	interLaunchDelay          = 100 * time.Millisecond
)

// Sender abstracts the transport used to notify clients and the GUI,
// so the controller can be tested without a real UDP socket.
type Sender interface {
	SendTo(addr *net.UDPAddr, msg oscwire.Message) error
	LocalURL() string
}

// Notifier receives GUI-facing mirror events (spec.md §4.6). The
// guirelay package implements it; the controller depends only on this
// narrow interface to avoid an import cycle.
type Notifier interface {
	ClientNew(rec *client.Record)
	ClientStatus(rec *client.Record)
	ClientLabel(rec *client.Record)
	ClientDirty(rec *client.Record)
	ClientProgress(rec *client.Record)
	ClientSwitch(oldID, newID client.ID)
	ClientRemoved(rec *client.Record)
	SessionName(name, relativePath string)
	Message(format string, args ...any)
	Welcome(sessionName, relativePath string, records []*client.Record)
}

type noopNotifier struct{}

func (noopNotifier) ClientNew(*client.Record)          {}
func (noopNotifier) ClientStatus(*client.Record)       {}
func (noopNotifier) ClientLabel(*client.Record)        {}
func (noopNotifier) ClientDirty(*client.Record)        {}
func (noopNotifier) ClientProgress(*client.Record)     {}
func (noopNotifier) ClientSwitch(client.ID, client.ID) {}
func (noopNotifier) ClientRemoved(*client.Record)      {}
func (noopNotifier) SessionName(string, string)        {}
func (noopNotifier) Message(string, ...any)            {}
func (noopNotifier) Welcome(string, string, []*client.Record) {}

// Controller orchestrates the session lifecycle over a client roster.
// It is driven from a single goroutine (spec.md §1, §5): no method is
// safe to call concurrently with another.
type Controller struct {
	roster     *client.Roster
	store      *sessionstore.Store
	lockLayout *lockdir.Layout
	supervisor *supervisor.Supervisor
	sender     Sender
	notifier   Notifier
	logger     *slog.Logger
	clock      clock.Clock
	guard      Guard

	sessionName string // relative to store root; "" if none open
	sessionDir  string // absolute; "" if none open
	guiAddr     *net.UDPAddr

	announceWait      time.Duration
	replyWait         time.Duration
	killedClientsWait time.Duration
}

// Config bundles Controller's dependencies.
type Config struct {
	Roster     *client.Roster
	Store      *sessionstore.Store
	LockLayout *lockdir.Layout
	Supervisor *supervisor.Supervisor
	Sender     Sender
	Notifier   Notifier
	Logger     *slog.Logger
	Clock      clock.Clock

	// AnnounceWait, ReplyWait, and KilledClientsWait override the
	// wait-loop durations spec.md §4.5 defines. Zero means use the
	// built-in default (internal/config's Timeouts section, parsed by
	// the caller, feeds these).
	AnnounceWait      time.Duration
	ReplyWait         time.Duration
	KilledClientsWait time.Duration
}

// New constructs a Controller. Notifier and Clock default to a no-op
// mirror and the real clock respectively when nil.
func New(cfg Config) *Controller {
	notifier := cfg.Notifier
	if notifier == nil {
		notifier = noopNotifier{}
	}
	cl := cfg.Clock
	if cl == nil {
		cl = clock.Real()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	announceWait := cfg.AnnounceWait
	if announceWait == 0 {
		announceWait = defaultAnnounceWait
	}
	replyWait := cfg.ReplyWait
	if replyWait == 0 {
		replyWait = defaultReplyWait
	}
	killedClientsWait := cfg.KilledClientsWait
	if killedClientsWait == 0 {
		killedClientsWait = defaultKilledClientsWait
	}
	return &Controller{
		roster:            cfg.Roster,
		store:             cfg.Store,
		lockLayout:        cfg.LockLayout,
		supervisor:        cfg.Supervisor,
		sender:            cfg.Sender,
		notifier:          notifier,
		logger:            logger,
		clock:             cl,
		announceWait:      announceWait,
		replyWait:         replyWait,
		killedClientsWait: killedClientsWait,
	}
}

// SessionName returns the current session's name relative to the
// store root, or "" if none is open.
func (c *Controller) SessionName() string { return c.sessionName }

// SessionDir returns the current session's absolute directory, or ""
// if none is open.
func (c *Controller) SessionDir() string { return c.sessionDir }

func (c *Controller) hasSessionOpen() bool { return c.sessionDir != "" }

// send wraps sender.SendTo with logging for the common "tell one
// client to do something" case.
func (c *Controller) send(rec *client.Record, path string, args ...any) {
	if rec.Address == nil {
		return
	}
	if err := c.sender.SendTo(rec.Address, oscwire.Message{Path: path, Args: args}); err != nil {
		c.logger.Warn("failed to send to client", "client", rec.ClientID, "path", path, "error", err)
	}
}

// setPending issues a directive to rec and records it as the client's
// pending command (spec.md §4.3).
func (c *Controller) setPending(rec *client.Record, cmd client.PendingCommand, path string, args ...any) {
	rec.SetPending(cmd)
	c.send(rec, path, args...)
}

// reply sends a spec.md §6 /reply for a server-directed request.
func (c *Controller) reply(addr *net.UDPAddr, requestPath string, args ...any) {
	full := append([]any{requestPath}, args...)
	if err := c.sender.SendTo(addr, oscwire.Message{Path: "/reply", Args: full}); err != nil {
		c.logger.Warn("failed to send reply", "request", requestPath, "error", err)
	}
}

// fail sends a spec.md §6 /error and returns it as a Go error for the
// handler's own control flow and logging.
func (c *Controller) fail(addr *net.UDPAddr, requestPath string, code ErrorCode, message string) *Error {
	if err := c.sender.SendTo(addr, oscwire.Message{Path: "/error", Args: []any{requestPath, int32(code), message}}); err != nil {
		c.logger.Warn("failed to send error", "request", requestPath, "error", err)
	}
	return NewError(code, message)
}

// nameWithIDDir returns the absolute per-client project directory for
// a manifest entry beside the current session (spec.md §3).
func (c *Controller) nameWithIDDir(entry sessionstore.ManifestEntry) string {
	return sessionstore.ClientDir(c.sessionDir, entry)
}

// relativeSessionPath returns the session name as reported to the GUI
// (spec.md §4.6: "current session name and relative path").
func (c *Controller) relativeSessionPath() (name, relative string) {
	if !c.hasSessionOpen() {
		return "", ""
	}
	return filepath.Base(c.sessionDir), c.sessionName
}

// pollUntil blocks until condition returns true or timeout elapses,
// checking every interval via c.clock. Returns whether condition
// became true before timing out. This is the shared shape behind
// wait_for_announce / wait_for_replies / wait_for_killed_clients_to_die
// (spec.md §5).
func (c *Controller) pollUntil(timeout, interval time.Duration, condition func() bool) bool {
	deadline := c.clock.Now().Add(timeout)
	for {
		if condition() {
			return true
		}
		if c.clock.Now().After(deadline) {
			return false
		}
		c.clock.Sleep(interval)
	}
}

