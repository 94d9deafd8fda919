package triage

import (
	"fmt"
	"os"
	"time"

	"github.com/litescript/ls-vidsort-tui/internal/label"
)

// undoPair records one reversible placement.
type undoPair struct {
	original string
	dest     string
}

// Session owns the triage state for one run: the work queue, the audit
// log, and the undo stack. All methods are synchronous and must be called
// from a single goroutine; callers are responsible for releasing any open
// playback handle on the current item before Classify, Skip, or Undo.
type Session struct {
	queue []string
	undo  []undoPair
	log   *Log
	mover *Mover
}

// Placement describes a completed classification.
type Placement struct {
	Original string
	Dest     string
	Action   string
}

// NewSession builds a session from the source directory and log file.
// Paths already present in the log are excluded from the queue.
func NewSession(sourceDir, logPath string, mode Mode) (*Session, error) {
	lg, err := OpenLog(logPath)
	if err != nil {
		return nil, err
	}

	logged, err := lg.LoggedPaths()
	if err != nil {
		return nil, err
	}

	queue, err := BuildQueue(sourceDir, logged)
	if err != nil {
		return nil, err
	}

	return &Session{
		queue: queue,
		log:   lg,
		mover: NewMover(mode),
	}, nil
}

// Current returns the item at the front of the queue, or "" when the
// backlog is empty.
func (s *Session) Current() string {
	if len(s.queue) == 0 {
		return ""
	}
	return s.queue[0]
}

// Remaining returns how many items are still queued behind the current one.
func (s *Session) Remaining() int {
	if len(s.queue) == 0 {
		return 0
	}
	return len(s.queue) - 1
}

// QueueLen returns the total queued items including the current one.
func (s *Session) QueueLen() int {
	return len(s.queue)
}

// Peek returns up to n upcoming items, current first.
func (s *Session) Peek(n int) []string {
	if n > len(s.queue) {
		n = len(s.queue)
	}
	out := make([]string, n)
	copy(out, s.queue[:n])
	return out
}

// Mode returns the session's placement mode.
func (s *Session) Mode() Mode {
	return s.mover.Mode()
}

// UndoDepth returns how many placements can currently be reversed.
func (s *Session) UndoDepth() int {
	return len(s.undo)
}

// Classify places the current item under l's destination. The filesystem
// change happens first; only on success are the log, undo stack, and
// queue touched, so a failed move leaves everything as it was.
func (s *Session) Classify(l label.Label) (Placement, error) {
	cur := s.Current()
	if cur == "" {
		return Placement{}, ErrNoCurrent
	}

	dest, err := s.mover.Place(cur, l.Dest)
	if err != nil {
		return Placement{}, err
	}

	p := Placement{Original: cur, Dest: dest, Action: string(s.mover.Mode())}
	if err := s.log.Append(Entry{
		Timestamp:    time.Now(),
		Key:          l.Key,
		Label:        l.Name,
		OriginalPath: cur,
		DestPath:     dest,
		Action:       p.Action,
	}); err != nil {
		return Placement{}, fmt.Errorf("placed but not logged: %w", err)
	}

	s.undo = append(s.undo, undoPair{original: cur, dest: dest})
	s.queue = s.queue[1:]

	return p, nil
}

// Skip records the current item as seen without touching the filesystem
// and advances the queue. Skips are permanent: they are excluded from
// future runs by the log but cannot be reversed with Undo.
func (s *Session) Skip() error {
	cur := s.Current()
	if cur == "" {
		return ErrNoCurrent
	}

	if err := s.log.Append(Entry{
		Timestamp:    time.Now(),
		Key:          "",
		Label:        "skip",
		OriginalPath: cur,
		DestPath:     cur,
		Action:       ActionSkip,
	}); err != nil {
		return err
	}

	s.queue = s.queue[1:]
	return nil
}

// Drop removes the current item without logging anything. Used when the
// file turns out to be unplayable; it will be offered again on the next
// run.
func (s *Session) Drop() {
	if len(s.queue) > 0 {
		s.queue = s.queue[1:]
	}
}

// Undo reverses the most recent placement: the file moves back to its
// original path, the last log row disappears, and the item returns to
// the front of the queue. Returns the restored path.
func (s *Session) Undo() (string, error) {
	if len(s.undo) == 0 {
		return "", ErrNothingToDo
	}

	pair := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	// In copy mode the original is still in place; only remove the copy.
	// In move mode the destination may have been deleted behind our back,
	// in which case there is nothing to move.
	if pathExists(pair.dest) {
		if s.mover.Mode() == ModeCopy && pathExists(pair.original) {
			if err := os.Remove(pair.dest); err != nil {
				return "", fmt.Errorf("undo remove copy: %w", err)
			}
		} else if err := Restore(pair.dest, pair.original); err != nil {
			return "", fmt.Errorf("undo restore: %w", err)
		}
	}

	if err := s.log.RemoveLast(); err != nil {
		return "", err
	}

	s.queue = append([]string{pair.original}, s.queue...)
	return pair.original, nil
}
