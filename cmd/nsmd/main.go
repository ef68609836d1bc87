// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/adminsock"
	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/clock"
	"github.com/ahlstromcj/nsm66d/internal/config"
	"github.com/ahlstromcj/nsm66d/internal/guirelay"
	"github.com/ahlstromcj/nsm66d/internal/lockdir"
	"github.com/ahlstromcj/nsm66d/internal/nsmversion"
	"github.com/ahlstromcj/nsm66d/internal/oscreg"
	"github.com/ahlstromcj/nsm66d/internal/sessioncontrol"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
	"github.com/ahlstromcj/nsm66d/internal/snapshot"
	"github.com/ahlstromcj/nsm66d/internal/snapshot/memory"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
	"github.com/ahlstromcj/nsm66d/internal/transport"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// pollInterval is how long the main loop waits for one OSC datagram
// before also checking for reaped children — spec.md §5's "1000 ms
// steady state" applies to nsmctl's discovery polling; the daemon's own
// loop can afford to be more responsive since it owns the socket.
const pollInterval = 200 * time.Millisecond

func run() error {
	var (
		oscPort      int
		sessionRoot  string
		loadSession  string
		guiURL       string
		detach       bool
		quiet        bool
		configPath   string
		runRoot      string
		showVersion  bool
	)

	flag.IntVar(&oscPort, "osc-port", 0, "UDP port to listen on for the OSC wire protocol (0 picks an ephemeral port)")
	flag.StringVar(&sessionRoot, "session-root", defaultSessionRoot(), "root directory under which named sessions live")
	flag.StringVar(&loadSession, "load-session", "", "session name to open immediately on startup")
	flag.StringVar(&guiURL, "gui-url", "", "OSC URL of a GUI to attach at startup")
	flag.BoolVar(&detach, "detach", false, "fork into the background after startup (spec.md §6)")
	flag.BoolVar(&quiet, "quiet", false, "suppress informational logging; only warnings and errors")
	flag.StringVar(&configPath, "config", "", "optional YAML settings file (SPEC_FULL.md §2.3)")
	flag.StringVar(&runRoot, "run-root", "", "override the per-host runtime directory root (default: $XDG_RUNTIME_DIR)")
	flag.BoolVar(&showVersion, "version", false, "print version information and exit")
	flag.Parse()

	if showVersion {
		fmt.Println(nsmversion.Banner("nsmd"))
		return nil
	}

	if detach {
		return detachIntoBackground()
	}

	level := slog.LevelInfo
	if quiet {
		level = slog.LevelWarn
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyFlags(config.FlagOverrides{GUIURL: guiURL, RunRoot: runRoot})

	store, err := sessionstore.NewStore(sessionRoot)
	if err != nil {
		return fmt.Errorf("opening session store at %s: %w", sessionRoot, err)
	}

	lockLayout, err := lockdir.NewLayout(cfg.Discovery.RunRoot)
	if err != nil {
		return fmt.Errorf("preparing lock directory: %w", err)
	}

	endpoint, err := transport.Listen(fmt.Sprintf(":%d", oscPort))
	if err != nil {
		return fmt.Errorf("listening for OSC on port %d: %w", oscPort, err)
	}
	defer endpoint.Close()

	if err := lockLayout.WriteDaemonFile(os.Getpid(), endpoint.URL()); err != nil {
		return fmt.Errorf("writing daemon advertisement: %w", err)
	}
	defer lockLayout.RemoveDaemonFile(os.Getpid())

	logger.Info("nsmd listening", "url", endpoint.URL(), "pid", os.Getpid())

	sup := supervisor.New(logger)
	roster := client.NewRoster()
	sender := localURLSender{Endpoint: endpoint}

	relay := guirelay.New(sender, nil, sessionRoot, logger)

	announceWait, err := cfg.AnnounceWaitDuration()
	if err != nil {
		return err
	}
	replyWait, err := cfg.ReplyWaitDuration()
	if err != nil {
		return err
	}
	killedClientsWait, err := cfg.KilledClientsWaitDuration()
	if err != nil {
		return err
	}

	controller := sessioncontrol.New(sessioncontrol.Config{
		Roster:            roster,
		Store:             store,
		LockLayout:        lockLayout,
		Supervisor:        sup,
		Sender:            sender,
		Notifier:          relay,
		Logger:            logger,
		Clock:             clock.Real(),
		AnnounceWait:      announceWait,
		ReplyWait:         replyWait,
		KilledClientsWait: killedClientsWait,
	})
	relay.SetAddressSource(controller)

	if cfg.GUI.DefaultURL != "" {
		if guiAddr, err := transport.ParseURL(cfg.GUI.DefaultURL); err != nil {
			logger.Warn("invalid --gui-url, not attaching a GUI at startup", "url", cfg.GUI.DefaultURL, "error", err)
		} else {
			controller.HandleGUIAnnounce(guiAddr)
		}
	}

	snapEngine := snapshot.New(memory.New(), logger)
	snapEngine.Start()

	adminSocketPath := filepath.Join(lockLayout.Root(), fmt.Sprintf("nsmd-%d.adminsock", os.Getpid()))
	adminServer := adminsock.NewSocketServer(adminSocketPath, logger)
	adminsock.RegisterStatusActions(adminServer, controller)

	dispatcher := transport.NewDispatcher(endpoint, logger)
	registerHandlers(dispatcher, controller)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if loadSession != "" {
		if oscErr := controller.Open(nil, loadSession); oscErr != nil {
			logger.Warn("failed to open --load-session", "session", loadSession, "error", oscErr)
		}
	}

	adminErrCh := make(chan error, 1)
	go func() { adminErrCh <- adminServer.Serve(ctx) }()

	logger.Info("entering main loop")
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			controller.Quit(nil)
			<-adminErrCh
			return nil
		case adminErr := <-adminErrCh:
			if adminErr != nil {
				logger.Warn("adminsock server exited", "error", adminErr)
			}
		default:
		}

		if err := dispatcher.DrainOne(pollInterval); err != nil {
			// ErrTimeout is the expected steady-state outcome; anything
			// else was already logged by DrainOne itself.
		}
		controller.PollChildExits()
		snapEngine.Drain()
	}
}

func defaultSessionRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "NSM Sessions")
}

// localURLSender adapts *transport.Endpoint's URL() to the LocalURL()
// name sessioncontrol.Sender and guirelay's wiring expect — the two
// packages were grounded on different teacher files and settled on
// different names for the same concept.
type localURLSender struct {
	*transport.Endpoint
}

func (s localURLSender) LocalURL() string {
	return s.Endpoint.URL()
}

var _ sessioncontrol.Sender = localURLSender{}
var _ guirelay.Sender = localURLSender{}

// registerHandlers wires every oscreg.Tag this daemon answers to the
// matching Controller method (spec.md §6's wire table).
func registerHandlers(d *transport.Dispatcher, c *sessioncontrol.Controller) {
	logErr := func(path string, err *sessioncontrol.Error) {
		if err != nil {
			slog.Default().Debug("request failed", "path", path, "code", err.Code, "message", err.Message)
		}
	}

	d.Handle(oscreg.TagServerAnnounce, func(from *net.UDPAddr, r transport.Received) {
		a := r.Message.Args
		if len(a) != 6 {
			return
		}
		name, _ := a[0].(string)
		capabilities, _ := a[1].(string)
		executable, _ := a[2].(string)
		apiMajor, _ := a[3].(int32)
		apiMinor, _ := a[4].(int32)
		pid, _ := a[5].(int32)
		logErr(r.Message.Path, c.HandleAnnounce(from, name, capabilities, executable, apiMajor, apiMinor, pid))
	})

	d.Handle(oscreg.TagServerSave, func(from *net.UDPAddr, _ transport.Received) {
		logErr("/nsm/server/save", c.Save(from))
	})
	d.Handle(oscreg.TagServerOpen, func(from *net.UDPAddr, r transport.Received) {
		name := stringArg(r, 0)
		logErr("/nsm/server/open", c.Open(from, name))
	})
	d.Handle(oscreg.TagServerNew, func(from *net.UDPAddr, r transport.Received) {
		name := stringArg(r, 0)
		logErr("/nsm/server/new", c.New(from, name))
	})
	d.Handle(oscreg.TagServerDuplicate, func(from *net.UDPAddr, r transport.Received) {
		name := stringArg(r, 0)
		logErr("/nsm/server/duplicate", c.Duplicate(from, name))
	})
	d.Handle(oscreg.TagServerClose, func(from *net.UDPAddr, _ transport.Received) {
		logErr("/nsm/server/close", c.Close(from))
	})
	d.Handle(oscreg.TagServerAbort, func(from *net.UDPAddr, _ transport.Received) {
		logErr("/nsm/server/abort", c.Abort(from))
	})
	d.Handle(oscreg.TagServerQuit, func(from *net.UDPAddr, _ transport.Received) {
		c.Quit(from)
	})
	d.Handle(oscreg.TagServerList, func(from *net.UDPAddr, _ transport.Received) {
		logErr("/nsm/server/list", c.List(from))
	})
	d.Handle(oscreg.TagServerAdd, func(from *net.UDPAddr, r transport.Received) {
		executable := stringArg(r, 0)
		logErr("/nsm/server/add", c.Add(from, executable))
	})
	d.Handle(oscreg.TagServerBroadcast, func(from *net.UDPAddr, r transport.Received) {
		c.Broadcast(from, r.Message)
	})

	d.Handle(oscreg.TagClientProgress, func(from *net.UDPAddr, r transport.Received) {
		if f, ok := floatArg(r, 0); ok {
			c.HandleProgress(from, f)
		}
	})
	d.Handle(oscreg.TagClientIsDirty, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleDirty(from, true)
	})
	d.Handle(oscreg.TagClientIsClean, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleDirty(from, false)
	})
	d.Handle(oscreg.TagClientGUIIsShown, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleOptionalGUIVisibility(from, true)
	})
	d.Handle(oscreg.TagClientGUIIsHidden, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleOptionalGUIVisibility(from, false)
	})
	d.Handle(oscreg.TagClientMessage, func(from *net.UDPAddr, r transport.Received) {
		a := r.Message.Args
		if len(a) != 2 {
			return
		}
		priority, _ := a[0].(int32)
		text, _ := a[1].(string)
		c.HandleMessage(from, priority, text)
	})
	d.Handle(oscreg.TagClientLabel, func(from *net.UDPAddr, r transport.Received) {
		c.HandleLabel(from, stringArg(r, 0))
	})

	d.Handle(oscreg.TagGUIAnnounce, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleGUIAnnounce(from)
	})
	d.Handle(oscreg.TagGUIServerAnnounce, func(from *net.UDPAddr, _ transport.Received) {
		c.HandleGUIAnnounce(from)
	})

	// /reply and /error share one wire path each across many logical
	// requests, so they route by the echoed request path inside the
	// message body rather than by Dispatcher.Handle (spec.md §6).
	d.HandleFallback(func(from *net.UDPAddr, r transport.Received) {
		switch r.Message.Path {
		case "/reply":
			if len(r.Message.Args) == 0 {
				return
			}
			requestPath, _ := r.Message.Args[0].(string)
			c.HandleReply(from, requestPath, r.Message.Args[1:])
		case "/error":
			if len(r.Message.Args) != 3 {
				return
			}
			requestPath, _ := r.Message.Args[0].(string)
			code, _ := r.Message.Args[1].(int32)
			message, _ := r.Message.Args[2].(string)
			c.HandleError(from, requestPath, code, message)
		}
	})
}

func stringArg(r transport.Received, index int) string {
	if index >= len(r.Message.Args) {
		return ""
	}
	s, _ := r.Message.Args[index].(string)
	return s
}

func floatArg(r transport.Received, index int) (float32, bool) {
	if index >= len(r.Message.Args) {
		return 0, false
	}
	f, ok := r.Message.Args[index].(float32)
	return f, ok
}

// detachIntoBackground re-execs this binary without --detach, in a new
// session and detached from the controlling terminal, then exits the
// foreground process. spec.md §6 lists --detach as a daemon flag but
// specifies no mechanism; this is the standard Go shape for it, since
// there is no fork(2) in the runtime to call directly.
func detachIntoBackground() error {
	args := make([]string, 0, len(os.Args)-1)
	for _, a := range os.Args[1:] {
		if a != "-detach" && a != "--detach" {
			args = append(args, a)
		}
	}

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("opening %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	cmd := exec.Command(os.Args[0], args...)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting detached nsmd: %w", err)
	}
	fmt.Printf("nsmd detached, pid %d\n", cmd.Process.Pid)
	return nil
}
