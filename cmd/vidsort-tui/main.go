// Vidsort TUI is a terminal-based human-in-the-loop video triage tool.
// It previews videos one at a time in an mpv window and files each one
// into a destination folder on a single keystroke, keeping a CSV audit
// log that makes runs resumable and the latest placement undoable.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/litescript/ls-vidsort-tui/internal/config"
	"github.com/litescript/ls-vidsort-tui/internal/label"
	"github.com/litescript/ls-vidsort-tui/internal/player"
	"github.com/litescript/ls-vidsort-tui/internal/theme"
	"github.com/litescript/ls-vidsort-tui/internal/triage"
	"github.com/litescript/ls-vidsort-tui/internal/tui"
	"github.com/litescript/ls-vidsort-tui/internal/version"
)

func main() {
	// Handle --version / -v flag
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "--version" || arg == "-v" {
			fmt.Printf("vidsort-tui v%s\n", version.Version)
			os.Exit(0)
		}
	}

	// Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	var (
		source     string
		labelsPath string
		logPath    string
		modeStr    string
		sortedRoot string
		pickSource bool
	)
	flag.StringVar(&source, "source", cfg.Defaults.Source, "folder containing videos to label")
	flag.StringVar(&source, "s", cfg.Defaults.Source, "shorthand for --source")
	flag.StringVar(&labelsPath, "config", cfg.Defaults.Labels, "label definition file (.toml or .json)")
	flag.StringVar(&labelsPath, "c", cfg.Defaults.Labels, "shorthand for --config")
	flag.StringVar(&logPath, "log", cfg.Defaults.Log, "CSV audit log path")
	flag.StringVar(&logPath, "l", cfg.Defaults.Log, "shorthand for --log")
	flag.StringVar(&modeStr, "mode", cfg.Defaults.Mode, "move files (default) or copy them when labeling")
	flag.StringVar(&sortedRoot, "sorted-root", "", "root folder for relative label dests (default: <source parent>/sorted)")
	flag.BoolVar(&pickSource, "pick-source", false, "open a folder picker for the source directory on launch")
	flag.Parse()

	if pickSource {
		picked, err := tui.PickDirectory(source)
		if err != nil {
			fmt.Fprintln(os.Stderr, "No source folder selected.")
			os.Exit(1)
		}
		source = picked
		if info, err := os.Stat(source); err != nil || !info.IsDir() {
			fmt.Fprintln(os.Stderr, "No source folder selected.")
			os.Exit(1)
		}
	}

	if err := config.EnsureSourceDir(source); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create source dir: %v\n", err)
		os.Exit(1)
	}

	if sortedRoot == "" {
		sortedRoot = filepath.Join(filepath.Dir(source), "sorted")
	}

	labels, err := label.Load(labelsPath, sortedRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mode, err := triage.ParseMode(modeStr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	session, err := triage.NewSession(source, logPath, mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	engine, err := player.Start(player.Options{
		Binary:    cfg.Player.Binary,
		SocketDir: cfg.Player.SocketDir,
		ExtraArgs: cfg.Player.ExtraArgs,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	// Start theme watcher
	themeWatcher, err := theme.NewWatcher(nil)
	if err == nil {
		defer themeWatcher.Stop()
	}

	model := tui.NewModel(labels, session, engine, cfg.Update.Check)
	if err := tui.Run(model); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
