// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sessioncontrol

import (
	"fmt"
	"os"

	"github.com/ahlstromcj/nsm66d/internal/client"
	"github.com/ahlstromcj/nsm66d/internal/sessionstore"
	"github.com/ahlstromcj/nsm66d/internal/supervisor"
)

// launch forks a fresh client process for entry, inserting a new
// roster record in the launch state before the child's capabilities
// are known (spec.md §4.3, "fork+exec issued").
func (c *Controller) launch(entry sessionstore.ManifestEntry) (*client.Record, error) {
	id, err := client.ParseID(entry.ID)
	if err != nil {
		id, err = c.roster.UniqueID()
		if err != nil {
			return nil, fmt.Errorf("sessioncontrol: generating client id: %w", err)
		}
	} else if _, exists := c.roster.ByClientID(id); exists {
		id, err = c.roster.UniqueID()
		if err != nil {
			return nil, fmt.Errorf("sessioncontrol: generating client id: %w", err)
		}
	}

	rec := client.NewRecord(id, entry.Name, entry.Executable)
	c.roster.Add(rec)
	c.notifier.ClientNew(rec)
	c.notifier.ClientStatus(rec)
	c.notifier.ClientLabel(rec)

	clientDir := c.nameWithIDDir(sessionstore.ManifestEntry{Name: entry.Name, Executable: entry.Executable, ID: id.String()})
	if err := os.MkdirAll(clientDir, 0700); err != nil {
		return rec, fmt.Errorf("sessioncontrol: creating client directory %s: %w", clientDir, err)
	}

	pid, err := c.supervisor.Launch(supervisor.Spec{
		Executable: entry.Executable,
		Dir:        clientDir,
		Env: []string{
			"NSM_URL=" + c.sender.LocalURL(),
		},
	})
	if err != nil {
		rec.Status = client.StatusStopped
		rec.LaunchError = true
		rec.Label = "Launch error!"
		c.notifier.ClientStatus(rec)
		c.notifier.ClientLabel(rec)
		return rec, fmt.Errorf("sessioncontrol: launching %s: %w", entry.Executable, err)
	}

	rec.ProcessID = pid
	return rec, nil
}
