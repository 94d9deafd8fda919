// Package label loads the keystroke-to-destination mapping used during
// triage. Definitions come from a TOML file of [[label]] blocks or, for
// compatibility with older setups, a JSON array. Labels are loaded once
// at startup and are immutable afterwards.
package label

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Label loading errors.
var (
	ErrNoLabels     = errors.New("no labels defined")
	ErrDuplicateKey = errors.New("duplicate label key")
	ErrReservedKey  = errors.New("label key is reserved")
	ErrBadKey       = errors.New("label key must be a single character")
)

// Keys that the TUI claims for itself and labels may not use.
var reservedKeys = map[string]bool{
	"s":  true, // skip
	"q":  true, // quit
	" ":  true, // play/pause
	"\t": true, // speed cycle
	"\b": true, // undo
}

// Label binds one keyboard key to a named destination folder.
type Label struct {
	Key  string `toml:"key" json:"key"`
	Name string `toml:"name" json:"name"`
	Dest string `toml:"dest" json:"dest"`
}

// labelFile is the top-level TOML structure.
type labelFile struct {
	Label []Label `toml:"label"`
}

// Load reads label definitions from path and resolves relative
// destinations against sortedRoot. The format is chosen by file
// extension: .json parses the legacy JSON array, everything else
// is treated as TOML.
func Load(path, sortedRoot string) ([]Label, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	var labels []Label
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &labels); err != nil {
			return nil, fmt.Errorf("parse labels %s: %w", path, err)
		}
	} else {
		var lf labelFile
		if err := toml.Unmarshal(data, &lf); err != nil {
			return nil, fmt.Errorf("parse labels %s: %w", path, err)
		}
		labels = lf.Label
	}

	if len(labels) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoLabels)
	}

	seen := make(map[string]bool, len(labels))
	for i := range labels {
		l := &labels[i]
		if err := validateKey(l.Key); err != nil {
			return nil, fmt.Errorf("label %q: %w", l.Name, err)
		}
		if l.Name == "" {
			return nil, fmt.Errorf("label with key %q has no name", l.Key)
		}
		if l.Dest == "" {
			return nil, fmt.Errorf("label %q has no dest", l.Name)
		}
		if seen[l.Key] {
			return nil, fmt.Errorf("key %q: %w", l.Key, ErrDuplicateKey)
		}
		seen[l.Key] = true

		if !filepath.IsAbs(l.Dest) {
			l.Dest = filepath.Join(sortedRoot, l.Dest)
		}
	}

	return labels, nil
}

// ByKey returns the label bound to key, if any.
func ByKey(labels []Label, key string) (Label, bool) {
	for _, l := range labels {
		if l.Key == key {
			return l, true
		}
	}
	return Label{}, false
}

func validateKey(key string) error {
	if utf8.RuneCountInString(key) != 1 {
		return ErrBadKey
	}
	if reservedKeys[strings.ToLower(key)] {
		return ErrReservedKey
	}
	return nil
}
