// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockdir

import (
	"context"
	"fmt"
	"time"

	"github.com/ahlstromcj/nsm66d/internal/oscwire"
	"github.com/ahlstromcj/nsm66d/internal/transport"
)

// Ping is the function signature discovery uses to verify a candidate
// daemon URL is actually alive, by sending a message and expecting a
// /reply within timeout. Production callers pass a closure around a
// transport.Endpoint; tests pass a fake.
type Ping func(ctx context.Context, url string) error

// DiscoverDaemon enumerates the daemon advertisement directory
// (spec.md §4.2, "CLI discovery") and returns the URL of the first
// daemon that answers ping successfully. Stale advertisement files are
// skipped silently, per spec.md §5 ("readers tolerate stale entries").
func DiscoverDaemon(ctx context.Context, layout *Layout, ping Ping) (string, error) {
	daemons, err := layout.ListDaemons()
	if err != nil {
		return "", fmt.Errorf("lockdir: discovering daemons: %w", err)
	}
	for _, url := range daemons {
		if err := ping(ctx, url); err == nil {
			return url, nil
		}
	}
	return "", fmt.Errorf("lockdir: no responsive daemon found in %s", layout.DaemonDir())
}

// EndpointPing builds a Ping that sends pingMessage to the candidate URL
// from endpoint and waits up to timeout for any datagram in response
// (the daemon's /reply to a ping-like request is sufficient evidence of
// life; this helper does not interpret the reply's contents).
func EndpointPing(endpoint *transport.Endpoint, pingMessage oscwire.Message, timeout time.Duration) Ping {
	return func(ctx context.Context, url string) error {
		if err := endpoint.SendToURL(url, pingMessage); err != nil {
			return err
		}
		deadline := timeout
		if d, ok := ctx.Deadline(); ok {
			if remaining := time.Until(d); remaining < deadline {
				deadline = remaining
			}
		}
		_, err := endpoint.Wait(deadline)
		return err
	}
}
