package tui

import "fmt"

// formatClock renders seconds as MM:SS. Negative or unknown values
// render as 00:00.
func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// shortenPath truncates a path from the left, keeping the tail visible.
func shortenPath(path string, max int) string {
	if len(path) <= max {
		return path
	}
	if max <= 1 {
		return path[len(path)-max:]
	}
	return "…" + path[len(path)-max+1:]
}
