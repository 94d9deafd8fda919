// Package triage implements the queue/log/undo state machine at the heart
// of the sorter: building a deterministic backlog of unclassified videos,
// placing each one into a destination folder, recording every disposition
// in a CSV audit log, and reversing the most recent placement.
package triage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Video file extensions offered for triage
var supportedExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".mpg": true, ".mpeg": true, ".wmv": true,
}

// SupportedExtension reports whether path has a video extension we triage.
// The check is case-insensitive.
func SupportedExtension(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// BuildQueue lists the direct children of sourceDir, keeps regular files
// with a supported extension, sorts them for a stable order across runs,
// and drops any path already recorded in the log. The result is the
// initial work queue, front first.
func BuildQueue(sourceDir string, logged map[string]bool) ([]string, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read source dir: %w", err)
	}

	var queue []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		path := filepath.Join(sourceDir, e.Name())
		if !SupportedExtension(path) {
			continue
		}
		if logged[path] {
			continue
		}
		queue = append(queue, path)
	}

	// ReadDir sorts by filename, but be explicit: ordering is part of
	// the contract, not a directory-listing accident.
	sort.Strings(queue)

	return queue, nil
}
