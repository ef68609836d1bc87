// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lockdir

import (
	"fmt"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to path by writing to a sibling temporary
// file, fsyncing it, and renaming it into place, so a concurrent reader
// never observes a partial write. Grounded on bureau/lib/watchdog.Write.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("lockdir: creating directory for %s: %w", path, err)
	}

	temporaryPath := path + ".tmp"
	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("lockdir: creating temporary file %s: %w", temporaryPath, err)
	}

	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("lockdir: writing temporary file %s: %w", temporaryPath, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("lockdir: syncing temporary file %s: %w", temporaryPath, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("lockdir: closing temporary file %s: %w", temporaryPath, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("lockdir: renaming %s into place: %w", path, err)
	}

	if parent, err := os.Open(filepath.Dir(path)); err == nil {
		parent.Sync()
		parent.Close()
	}
	return nil
}
