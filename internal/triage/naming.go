package triage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureUniquePath returns desired if nothing exists there, otherwise the
// first free "{stem}__{NNN}{ext}" candidate counting up from 001. It never
// picks a path that would overwrite an existing file.
func EnsureUniquePath(desired string) string {
	if !pathExists(desired) {
		return desired
	}

	ext := filepath.Ext(desired)
	stem := strings.TrimSuffix(filepath.Base(desired), ext)
	dir := filepath.Dir(desired)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s__%03d%s", stem, counter, ext))
		if !pathExists(candidate) {
			return candidate
		}
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
