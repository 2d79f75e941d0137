// Copyright 2026 The Rewind Authors
// SPDX-License-Identifier: Apache-2.0

package sessionindex

import (
	"os"
	"path/filepath"
)

// projectMarkers identify a project root when walking upward from the
// working directory.
var projectMarkers = []string{".git", "AGENTS.md"}

// DetectProjectRoot walks up from start looking for a project marker
// and returns the first directory that carries one. When no marker is
// found all the way to the filesystem root, start itself is returned.
func DetectProjectRoot(start string) string {
	dir, err := filepath.Abs(start)
	if err != nil {
		return start
	}
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return start
		}
		dir = parent
	}
}
