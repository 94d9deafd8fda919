package triage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"move", "copy"} {
		mode, err := ParseMode(s)
		if err != nil {
			t.Errorf("ParseMode(%q): %v", s, err)
		}
		if string(mode) != s {
			t.Errorf("ParseMode(%q) = %q", s, mode)
		}
	}

	if _, err := ParseMode("link"); !errors.Is(err, ErrBadMode) {
		t.Errorf("ParseMode(link) err = %v, want ErrBadMode", err)
	}
}

func TestPlaceMove(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.mp4")
	mustWrite(t, src, "content-a")
	destDir := filepath.Join(t.TempDir(), "keep")

	dest, err := NewMover(ModeMove).Place(src, destDir)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if dest != filepath.Join(destDir, "a.mp4") {
		t.Errorf("dest = %q", dest)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("move mode left the source in place")
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "content-a" {
		t.Errorf("dest content = %q, %v", data, err)
	}
}

func TestPlaceCopy(t *testing.T) {
	src := filepath.Join(t.TempDir(), "a.mp4")
	mustWrite(t, src, "content-a")
	stamp := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	if err := os.Chtimes(src, stamp, stamp); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	destDir := filepath.Join(t.TempDir(), "keep")

	dest, err := NewMover(ModeCopy).Place(src, destDir)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if _, err := os.Stat(src); err != nil {
		t.Error("copy mode removed the source")
	}
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("stat dest: %v", err)
	}
	if !info.ModTime().Equal(stamp) {
		t.Errorf("dest mtime = %v, want %v", info.ModTime(), stamp)
	}
}

func TestPlaceNeverOverwrites(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	mustWrite(t, filepath.Join(destDir, "a.mp4"), "existing")

	src := filepath.Join(srcDir, "a.mp4")
	mustWrite(t, src, "new")

	dest, err := NewMover(ModeMove).Place(src, destDir)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if dest != filepath.Join(destDir, "a__001.mp4") {
		t.Errorf("dest = %q, want collision suffix", dest)
	}
	data, _ := os.ReadFile(filepath.Join(destDir, "a.mp4"))
	if string(data) != "existing" {
		t.Error("pre-existing file was overwritten")
	}
}

func TestPlaceMissingSource(t *testing.T) {
	_, err := NewMover(ModeMove).Place(filepath.Join(t.TempDir(), "gone.mp4"), t.TempDir())
	if !errors.Is(err, ErrSourceGone) {
		t.Errorf("err = %v, want ErrSourceGone", err)
	}
}

func TestCopyFileFallbackPath(t *testing.T) {
	// The copy path is what moveFile degrades to on EXDEV; exercise it
	// directly since two filesystems are not available under test.
	src := filepath.Join(t.TempDir(), "a.mp4")
	mustWrite(t, src, "payload")
	dest := filepath.Join(t.TempDir(), "b.mp4")

	if err := copyFile(src, dest); err != nil {
		t.Fatalf("copyFile: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "payload" {
		t.Errorf("dest content = %q, %v", data, err)
	}
}

func TestRestoreRecreatesParents(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "moved.mp4")
	mustWrite(t, dest, "x")

	original := filepath.Join(t.TempDir(), "deep", "nested", "a.mp4")
	if err := Restore(dest, original); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := os.Stat(original); err != nil {
		t.Errorf("original missing after restore: %v", err)
	}
}
