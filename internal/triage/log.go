package triage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Disposition actions recorded in the log.
const (
	ActionMove = "move"
	ActionCopy = "copy"
	ActionSkip = "skip"
)

var logHeader = []string{"timestamp", "key", "label", "original_path", "dest_path", "action"}

// Entry is one audit record: a terminal disposition of one original path.
type Entry struct {
	Timestamp    time.Time
	Key          string
	Label        string
	OriginalPath string
	DestPath     string
	Action       string
}

// Log is the append-only CSV audit trail. Its content doubles as the
// "already processed" exclusion set when the queue is rebuilt on the
// next run.
type Log struct {
	path string
}

// OpenLog prepares the audit log at path, writing the header row if the
// file does not exist yet.
func OpenLog(path string) (*Log, error) {
	l := &Log{path: path}

	if _, err := os.Stat(path); err == nil {
		return l, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(logHeader); err != nil {
		return nil, fmt.Errorf("write log header: %w", err)
	}
	w.Flush()

	return l, w.Error()
}

// Path returns the log file location.
func (l *Log) Path() string {
	return l.path
}

// Append writes one entry to the end of the log.
func (l *Log) Append(e Entry) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := []string{
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Key,
		e.Label,
		e.OriginalPath,
		e.DestPath,
		e.Action,
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	w.Flush()

	return w.Error()
}

// LoggedPaths returns the set of original paths that already have a
// disposition, for queue exclusion.
func (l *Log) LoggedPaths() (map[string]bool, error) {
	rows, err := l.readAll()
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]bool{}, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) > 3 && row[3] != "" {
			seen[row[3]] = true
		}
	}
	return seen, nil
}

// RemoveLast drops the final data row, leaving the file as if that
// disposition had never been logged. The whole file is rewritten; at
// human triage scale the linear cost is irrelevant.
func (l *Log) RemoveLast() error {
	rows, err := l.readAll()
	if err != nil {
		return err
	}
	if len(rows) <= 1 {
		return nil // header only, nothing to remove
	}

	rows = rows[:len(rows)-1]

	f, err := os.Create(l.path)
	if err != nil {
		return fmt.Errorf("rewrite log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("rewrite log: %w", err)
	}
	return w.Error()
}

func (l *Log) readAll() ([][]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return rows, nil
}
