// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package adminsock

import (
	"context"

	"github.com/ahlstromcj/nsm66d/internal/sessioncontrol"
)

// StatusSource is the narrow view of the session controller adminsock
// depends on, so this package never imports the controller's
// mutation-side API and cannot be tempted to bypass its single-threaded
// dispatch discipline.
type StatusSource interface {
	Status() sessioncontrol.Status
}

// PingResponse is the "ping" action's result: nothing beyond
// confirming the daemon is alive and answering requests.
type PingResponse struct {
	OK bool `cbor:"ok"`
}

// RegisterStatusActions registers the "status" and "ping" actions on
// server, backed by source.
func RegisterStatusActions(server *SocketServer, source StatusSource) {
	server.Handle("status", func(ctx context.Context, raw []byte) (any, error) {
		return source.Status(), nil
	})
	server.Handle("ping", func(ctx context.Context, raw []byte) (any, error) {
		return PingResponse{OK: true}, nil
	})
}
