// Package config handles application configuration via TOML files.
// Configuration is stored at ~/.config/vidsort-tui/config.toml and includes
// settings for the mpv preview player and default triage paths.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds application configuration
type Config struct {
	Player   PlayerConfig   `toml:"player"`
	Defaults DefaultsConfig `toml:"defaults"`
	Update   UpdateConfig   `toml:"update"`
}

// PlayerConfig holds settings for the external mpv preview player
type PlayerConfig struct {
	// Binary is the mpv executable to launch. Resolved via PATH
	// when not an absolute path.
	Binary string `toml:"binary"`

	// SocketDir is where the per-session JSON IPC socket is created.
	// Defaults to the OS temp directory.
	SocketDir string `toml:"socket_dir"`

	// ExtraArgs are appended to the mpv command line, for users who
	// want e.g. --no-audio or a specific --vo.
	ExtraArgs []string `toml:"extra_args"`
}

// DefaultsConfig holds fallback values for CLI flags
type DefaultsConfig struct {
	// Source is the folder of videos awaiting triage.
	Source string `toml:"source"`

	// Labels is the label definition file (.toml or .json).
	Labels string `toml:"labels"`

	// Log is the CSV audit log path.
	Log string `toml:"log"`

	// Mode is "move" or "copy".
	Mode string `toml:"mode"`
}

// UpdateConfig holds update check settings
type UpdateConfig struct {
	// Check enables the GitHub release check on startup.
	Check bool `toml:"check"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Player: PlayerConfig{
			Binary:    "mpv",
			SocketDir: os.TempDir(),
		},
		Defaults: DefaultsConfig{
			Source: "videos_to_label",
			Labels: filepath.Join("config", "labels.toml"),
			Log:    filepath.Join("logs", "labels.csv"),
			Mode:   "move",
		},
		Update: UpdateConfig{
			Check: true,
		},
	}
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "vidsort-tui", "config.toml")
}

// Load reads config from disk or returns defaults
func Load() (Config, error) {
	cfg := Default()
	path := ConfigPath()

	data, err := os.ReadFile(path)
	if err != nil {
		// No config file, return defaults
		return cfg, nil
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Save writes config to disk
func Save(cfg Config) error {
	path := ConfigPath()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureSourceDir creates the source directory if it doesn't exist
func EnsureSourceDir(path string) error {
	return os.MkdirAll(path, 0755)
}
