package triage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestOpenLogWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "labels.csv")

	if _, err := OpenLog(path); err != nil {
		t.Fatalf("OpenLog: %v", err)
	}
	first, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := strings.TrimSpace(string(first)); got != "timestamp,key,label,original_path,dest_path,action" {
		t.Fatalf("header = %q", got)
	}

	// Reopening an existing log must not touch it.
	if _, err := OpenLog(path); err != nil {
		t.Fatalf("OpenLog again: %v", err)
	}
	second, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(first) != string(second) {
		t.Error("reopening rewrote the log file")
	}
}

func TestAppendAndLoggedPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	lg, err := OpenLog(path)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}

	entries := []Entry{
		{Timestamp: time.Now(), Key: "1", Label: "keep", OriginalPath: "/v/a.mp4", DestPath: "/s/keep/a.mp4", Action: ActionMove},
		{Timestamp: time.Now(), Key: "", Label: "skip", OriginalPath: "/v/b.mp4", DestPath: "/v/b.mp4", Action: ActionSkip},
	}
	for _, e := range entries {
		if err := lg.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	seen, err := lg.LoggedPaths()
	if err != nil {
		t.Fatalf("LoggedPaths: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("len(seen) = %d, want 2", len(seen))
	}
	for _, p := range []string{"/v/a.mp4", "/v/b.mp4"} {
		if !seen[p] {
			t.Errorf("missing logged path %q", p)
		}
	}
}

func TestRemoveLastDropsOnlyFinalRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	lg, err := OpenLog(path)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}

	ts := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	lg.Append(Entry{Timestamp: ts, Key: "1", Label: "keep", OriginalPath: "/v/a.mp4", DestPath: "/s/a.mp4", Action: ActionMove})
	before, _ := os.ReadFile(path)
	lg.Append(Entry{Timestamp: ts, Key: "2", Label: "trash", OriginalPath: "/v/b.mp4", DestPath: "/s/b.mp4", Action: ActionMove})

	if err := lg.RemoveLast(); err != nil {
		t.Fatalf("RemoveLast: %v", err)
	}

	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Errorf("log not restored byte-for-byte:\nbefore: %q\nafter:  %q", before, after)
	}
}

func TestRemoveLastOnHeaderOnlyLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.csv")
	lg, err := OpenLog(path)
	if err != nil {
		t.Fatalf("OpenLog: %v", err)
	}

	before, _ := os.ReadFile(path)
	if err := lg.RemoveLast(); err != nil {
		t.Fatalf("RemoveLast: %v", err)
	}
	after, _ := os.ReadFile(path)
	if string(before) != string(after) {
		t.Error("RemoveLast touched a header-only log")
	}
}
