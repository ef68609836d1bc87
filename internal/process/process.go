// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides binary entrypoint helpers shared by nsmd and
// nsmctl. It centralizes the one raw I/O pattern that legitimately exists
// before the structured logger is initialized: reporting a startup error
// to stderr and exiting.
package process

import (
	"fmt"
	"os"
)

// Fatal writes "error: err" to stderr and exits with code 1. Use it in
// main() for errors returned by run() before logging is configured.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
