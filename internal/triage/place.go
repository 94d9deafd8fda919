package triage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"
)

// Placement errors.
var (
	ErrLocked      = errors.New("file locked or permission denied")
	ErrBadMode     = errors.New("mode must be move or copy")
	ErrSourceGone  = errors.New("source file not found")
	ErrNoCurrent   = errors.New("no current item")
	ErrNothingToDo = errors.New("nothing to undo")
)

// Mode selects what a classification does to the source file.
type Mode string

const (
	ModeMove Mode = "move"
	ModeCopy Mode = "copy"
)

// ParseMode validates a mode string from the CLI or config.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeMove, ModeCopy:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrBadMode)
}

// Mover places source files into destination directories with
// collision-safe names. The mode is fixed for the session.
type Mover struct {
	mode Mode
}

// NewMover creates a Mover operating in the given mode.
func NewMover(mode Mode) *Mover {
	return &Mover{mode: mode}
}

// Mode returns the configured mode.
func (m *Mover) Mode() Mode {
	return m.mode
}

// Place puts src into destDir under a collision-safe name, creating the
// directory if needed. Returns the chosen destination path. A lock or
// permission failure surfaces as ErrLocked so callers can offer a retry.
func (m *Mover) Place(src, destDir string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		return "", fmt.Errorf("%s: %w", src, ErrSourceGone)
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create dest dir: %w", err)
	}

	dest := EnsureUniquePath(filepath.Join(destDir, filepath.Base(src)))

	var err error
	if m.mode == ModeCopy {
		err = copyFile(src, dest)
	} else {
		err = moveFile(src, dest)
	}
	if err != nil {
		if isLocked(err) {
			return "", fmt.Errorf("%s: %w", src, ErrLocked)
		}
		return "", err
	}

	return dest, nil
}

// Restore moves a previously placed file back to its original path,
// recreating parent directories as needed. Used by undo.
func Restore(dest, original string) error {
	if err := os.MkdirAll(filepath.Dir(original), 0755); err != nil {
		return fmt.Errorf("create source dir: %w", err)
	}
	return moveFile(dest, original)
}

// moveFile renames src to dest, degrading to copy+remove when the two
// paths live on different filesystems.
func moveFile(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}

	if !isCrossDevice(err) {
		return err
	}

	if err := copyFile(src, dest); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies content and carries the source mtime over, the closest
// portable match for what the original files had.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}

	_ = os.Chtimes(dest, info.ModTime(), info.ModTime())
	return nil
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

func isLocked(err error) bool {
	if os.IsPermission(err) {
		return true
	}
	return errors.Is(err, syscall.EACCES) ||
		errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.ETXTBSY)
}
