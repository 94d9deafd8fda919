// Package version provides build and version information.
package version

// Version is the current application version.
// Update this at logical milestones.
const Version = "0.1.0"

// Milestones:
// 0.1.0 - Initial release: queue, classify, skip, undo, mpv preview
// 1.0.0 - (planned) feature-complete public release
