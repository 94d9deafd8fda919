package triage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/litescript/ls-vidsort-tui/internal/label"
)

// fixture builds a source dir with the given files and returns the
// session plus the paths involved.
func fixture(t *testing.T, mode Mode, files ...string) (*Session, string, string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "videos")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, name := range files {
		mustWrite(t, filepath.Join(src, name), "content-"+name)
	}
	logPath := filepath.Join(root, "logs", "labels.csv")

	s, err := NewSession(src, logPath, mode)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s, src, root
}

func keepLabel(root string) label.Label {
	return label.Label{Key: "1", Name: "keep", Dest: filepath.Join(root, "sorted", "keep")}
}

func countDataRows(t *testing.T, logPath string) int {
	t.Helper()
	lg := &Log{path: logPath}
	rows, err := lg.readAll()
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	return len(rows) - 1
}

func TestClassifyMovesLogsAdvances(t *testing.T) {
	s, src, root := fixture(t, ModeMove, "a.mp4", "b.mp4")
	logPath := s.log.Path()

	if s.Current() != filepath.Join(src, "a.mp4") {
		t.Fatalf("current = %q", s.Current())
	}

	p, err := s.Classify(keepLabel(root))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}

	wantDest := filepath.Join(root, "sorted", "keep", "a.mp4")
	if p.Dest != wantDest {
		t.Errorf("dest = %q, want %q", p.Dest, wantDest)
	}
	if _, err := os.Stat(wantDest); err != nil {
		t.Errorf("dest missing: %v", err)
	}
	if _, err := os.Stat(p.Original); !os.IsNotExist(err) {
		t.Error("original still present after move")
	}
	if got := countDataRows(t, logPath); got != 1 {
		t.Errorf("log rows = %d, want 1", got)
	}
	if s.Current() != filepath.Join(src, "b.mp4") {
		t.Errorf("queue did not advance, current = %q", s.Current())
	}
	if s.UndoDepth() != 1 {
		t.Errorf("undo depth = %d, want 1", s.UndoDepth())
	}
}

func TestClassifyCopyKeepsOriginal(t *testing.T) {
	s, src, root := fixture(t, ModeCopy, "a.mp4")

	p, err := s.Classify(keepLabel(root))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "a.mp4")); err != nil {
		t.Error("copy mode removed the original")
	}
	if p.Action != "copy" {
		t.Errorf("action = %q, want copy", p.Action)
	}
}

func TestClassifyEmptyQueue(t *testing.T) {
	s, _, root := fixture(t, ModeMove)
	if _, err := s.Classify(keepLabel(root)); !errors.Is(err, ErrNoCurrent) {
		t.Errorf("err = %v, want ErrNoCurrent", err)
	}
}

func TestSkipLogsWithoutFilesystemChange(t *testing.T) {
	s, src, _ := fixture(t, ModeMove, "a.mp4", "b.mp4")

	if err := s.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "a.mp4")); err != nil {
		t.Error("skip touched the file")
	}
	if s.Current() != filepath.Join(src, "b.mp4") {
		t.Errorf("current = %q", s.Current())
	}
	if s.UndoDepth() != 0 {
		t.Error("skip pushed onto the undo stack")
	}
}

func TestSkipExcludedOnRestart(t *testing.T) {
	s, src, _ := fixture(t, ModeMove, "a.mp4", "b.mp4")
	logPath := s.log.Path()

	if err := s.Skip(); err != nil {
		t.Fatalf("Skip: %v", err)
	}

	// Simulate a restart against the same directory and log.
	restarted, err := NewSession(src, logPath, ModeMove)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if restarted.QueueLen() != 1 || restarted.Current() != filepath.Join(src, "b.mp4") {
		t.Errorf("restart re-offered a skipped file: %v", restarted.Peek(10))
	}
}

func TestUndoRoundTrip(t *testing.T) {
	s, src, root := fixture(t, ModeMove, "a.mp4", "b.mp4")
	logPath := s.log.Path()

	logBefore, _ := os.ReadFile(logPath)

	for i := 0; i < 3; i++ {
		p, err := s.Classify(keepLabel(root))
		if err != nil {
			t.Fatalf("Classify #%d: %v", i, err)
		}

		restored, err := s.Undo()
		if err != nil {
			t.Fatalf("Undo #%d: %v", i, err)
		}
		if restored != filepath.Join(src, "a.mp4") {
			t.Errorf("restored = %q", restored)
		}
		if _, err := os.Stat(p.Dest); !os.IsNotExist(err) {
			t.Error("destination still exists after undo")
		}
		data, err := os.ReadFile(restored)
		if err != nil || string(data) != "content-a.mp4" {
			t.Errorf("original content = %q, %v", data, err)
		}

		logAfter, _ := os.ReadFile(logPath)
		if string(logBefore) != string(logAfter) {
			t.Errorf("log differs after undo #%d", i)
		}
		if s.Current() != filepath.Join(src, "a.mp4") {
			t.Errorf("front = %q, want a.mp4 back at front", s.Current())
		}
		if s.QueueLen() != 2 {
			t.Errorf("queue len = %d, want 2", s.QueueLen())
		}
		if s.UndoDepth() != 0 {
			t.Errorf("undo depth = %d, want 0", s.UndoDepth())
		}
	}
}

func TestUndoCopyModeRemovesCopy(t *testing.T) {
	s, src, root := fixture(t, ModeCopy, "a.mp4")

	p, err := s.Classify(keepLabel(root))
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := os.Stat(p.Dest); !os.IsNotExist(err) {
		t.Error("copy still exists after undo")
	}
	data, err := os.ReadFile(filepath.Join(src, "a.mp4"))
	if err != nil || string(data) != "content-a.mp4" {
		t.Errorf("original damaged: %q, %v", data, err)
	}
}

func TestUndoEmptyStack(t *testing.T) {
	s, _, _ := fixture(t, ModeMove, "a.mp4")
	if _, err := s.Undo(); !errors.Is(err, ErrNothingToDo) {
		t.Errorf("err = %v, want ErrNothingToDo", err)
	}
}

func TestDropDoesNotLog(t *testing.T) {
	s, src, _ := fixture(t, ModeMove, "a.mp4", "b.mp4")
	logPath := s.log.Path()

	before, _ := os.ReadFile(logPath)
	s.Drop()
	after, _ := os.ReadFile(logPath)

	if string(before) != string(after) {
		t.Error("Drop wrote to the log")
	}
	if s.Current() != filepath.Join(src, "b.mp4") {
		t.Errorf("current = %q", s.Current())
	}
}

// The end-to-end scenario: two files, one label, classify then undo.
func TestScenarioClassifyThenUndo(t *testing.T) {
	s, src, root := fixture(t, ModeMove, "a.mp4", "b.mp4")
	logPath := s.log.Path()

	if got := s.Peek(2); got[0] != filepath.Join(src, "a.mp4") || got[1] != filepath.Join(src, "b.mp4") {
		t.Fatalf("initial queue = %v", got)
	}

	// Press "1"
	p, err := s.Classify(label.Label{Key: "1", Name: "keep", Dest: filepath.Join(root, "keep")})
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if p.Dest != filepath.Join(root, "keep", "a.mp4") {
		t.Errorf("dest = %q", p.Dest)
	}
	if got := countDataRows(t, logPath); got != 1 {
		t.Errorf("log rows = %d, want 1", got)
	}
	if s.QueueLen() != 1 {
		t.Errorf("queue len = %d, want 1", s.QueueLen())
	}

	// Press backspace
	if _, err := s.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := os.Stat(filepath.Join(src, "a.mp4")); err != nil {
		t.Error("a.mp4 not restored to source")
	}
	if got := countDataRows(t, logPath); got != 0 {
		t.Errorf("log rows = %d, want 0", got)
	}
	if s.QueueLen() != 2 || s.Current() != filepath.Join(src, "a.mp4") {
		t.Errorf("queue = %v", s.Peek(10))
	}
}
