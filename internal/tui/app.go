// Package tui implements the terminal user interface using Bubble Tea.
// It owns the interaction loop: keyboard-driven classification of the
// current video, skip/undo, and transport control of the mpv preview
// window via the player package.
package tui

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/ls-vidsort-tui/internal/label"
	"github.com/litescript/ls-vidsort-tui/internal/player"
	"github.com/litescript/ls-vidsort-tui/internal/theme"
	"github.com/litescript/ls-vidsort-tui/internal/triage"
	"github.com/litescript/ls-vidsort-tui/internal/version"
)

// Engine is the playback surface the TUI drives. Satisfied by
// *player.Player; tests substitute a stub.
type Engine interface {
	Load(path string) error
	Unload() error
	SetPause(paused bool) error
	SetSpeed(rate float64) error
	Seek(seconds float64) error
	Events() <-chan player.Event
}

// Playback rates cycled by the speed key, wrapping after the last.
var speedSteps = []float64{0.5, 1.0, 1.5, 2.0, 4.0, 6.0, 8.0, 10.0}

// scrubStep is how far one arrow press moves the pending seek position.
const scrubStep = 5.0 // seconds

// Messages
type playerEventMsg struct {
	event player.Event
}

type playerClosedMsg struct{}

type updateCheckMsg struct {
	info version.UpdateInfo
}

// Model is the main application state
type Model struct {
	labels  []label.Label
	session *triage.Session
	engine  Engine

	// Components
	spinner spinner.Model
	posBar  progress.Model

	// Playback state (mirrors the engine's notifications)
	loading  bool
	paused   bool
	speedIdx int // index into speedSteps
	position float64
	duration float64

	// Scrubbing: while active, position updates from the engine are
	// ignored and only the pending time is displayed; confirming seeks.
	scrubbing bool
	scrubPos  float64

	// UI state
	statusMsg      string
	warnTitle      string
	warnBody       string // non-empty shows a blocking modal
	confirmingQuit bool
	updateNotice   string

	checkUpdate bool

	// Dimensions
	width  int
	height int
}

// NewModel creates the initial model. The engine must already be running.
func NewModel(labels []label.Label, session *triage.Session, engine Engine, checkUpdate bool) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.CurrentPalette.Accent))

	bar := progress.New(
		progress.WithSolidFill(theme.CurrentPalette.Accent),
		progress.WithoutPercentage(),
	)

	return Model{
		labels:      labels,
		session:     session,
		engine:      engine,
		spinner:     sp,
		posBar:      bar,
		speedIdx:    1, // 1.0x
		checkUpdate: checkUpdate,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		m.waitForEvent(),
	}
	if m.checkUpdate {
		cmds = append(cmds, checkForUpdate())
	}
	return tea.Batch(cmds...)
}

// waitForEvent relays the next engine notification into the update loop.
func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.engine.Events()
		if !ok {
			return playerClosedMsg{}
		}
		return playerEventMsg{event: ev}
	}
}

func checkForUpdate() tea.Cmd {
	return func() tea.Msg {
		return updateCheckMsg{info: version.CheckForUpdate()}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		barWidth := msg.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
		m.posBar.Width = barWidth

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case playerEventMsg:
		m = m.handlePlayerEvent(msg.event)
		cmds = append(cmds, m.waitForEvent())

	case playerClosedMsg:
		m.statusMsg = "Preview player exited."

	case updateCheckMsg:
		if msg.info.Error == nil && msg.info.UpdateAvailable {
			m.updateNotice = fmt.Sprintf("v%s available (run: %s)",
				msg.info.LatestVersion, version.InstallCommand())
		}
	}

	return m, tea.Batch(cmds...)
}

// handlePlayerEvent folds one engine notification into the model.
func (m Model) handlePlayerEvent(ev player.Event) Model {
	switch ev := ev.(type) {
	case player.PositionEvent:
		if !m.scrubbing {
			m.position = ev.Seconds
		}

	case player.DurationEvent:
		m.duration = ev.Seconds

	case player.PauseEvent:
		m.paused = ev.Paused

	case player.FileLoadedEvent:
		m.loading = false

	case player.EndFileEvent:
		// "stop" and "quit" reasons are consequences of our own
		// commands; only a decode failure matters here.
		if ev.Reason == "error" {
			cur := m.session.Current()
			m.session.Drop()
			m.statusMsg = fmt.Sprintf("Cannot play %s, advancing", filepath.Base(cur))
			m, _ = m.loadCurrent()
		}
	}
	return m
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// Global quit - always works
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// Blocking warning modal: any key dismisses
	if m.warnBody != "" {
		m.warnTitle = ""
		m.warnBody = ""
		return m, nil
	}

	// Quit confirmation modal
	if m.confirmingQuit {
		switch key {
		case "q", "y", "enter":
			return m, tea.Quit
		default:
			m.confirmingQuit = false
			return m, nil
		}
	}

	switch key {
	case "q":
		m.confirmingQuit = true
		return m, nil

	case " ":
		return m.togglePause()

	case "tab":
		return m.cycleSpeed()

	case "left":
		return m.scrub(-scrubStep)

	case "right":
		return m.scrub(scrubStep)

	case "enter":
		return m.commitScrub()

	case "esc":
		m.scrubbing = false
		return m, nil

	case "backspace":
		return m.undo()

	case "s", "S":
		return m.skip()
	}

	if l, ok := label.ByKey(m.labels, key); ok {
		return m.classify(l)
	}

	return m, nil
}

// togglePause flips playback. The authoritative state comes back as a
// PauseEvent; flipping locally keeps the display responsive.
func (m Model) togglePause() (tea.Model, tea.Cmd) {
	if m.session.Current() == "" {
		return m, nil
	}
	m.paused = !m.paused
	if err := m.engine.SetPause(m.paused); err != nil {
		m.statusMsg = err.Error()
	}
	return m, nil
}

func (m Model) cycleSpeed() (tea.Model, tea.Cmd) {
	m.speedIdx = (m.speedIdx + 1) % len(speedSteps)
	rate := speedSteps[m.speedIdx]
	if err := m.engine.SetSpeed(rate); err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Speed %.1fx", rate)
	return m, nil
}

// scrub adjusts the pending seek target without seeking. Only the
// displayed time changes until the position is confirmed with enter.
func (m Model) scrub(delta float64) (tea.Model, tea.Cmd) {
	if m.duration <= 0 {
		return m, nil
	}
	if !m.scrubbing {
		m.scrubbing = true
		m.scrubPos = m.position
	}
	m.scrubPos += delta
	if m.scrubPos < 0 {
		m.scrubPos = 0
	}
	if m.scrubPos > m.duration {
		m.scrubPos = m.duration
	}
	return m, nil
}

// commitScrub performs the deferred seek.
func (m Model) commitScrub() (tea.Model, tea.Cmd) {
	if !m.scrubbing {
		return m, nil
	}
	m.scrubbing = false
	if m.duration > 0 {
		if err := m.engine.Seek(m.scrubPos); err != nil {
			m.statusMsg = err.Error()
			return m, nil
		}
		m.position = m.scrubPos
	}
	return m, nil
}

// classify places the current item under l. The engine's file handle is
// released first so the move cannot race an open handle; a lock failure
// reloads the item and raises a blocking warning with nothing mutated.
func (m Model) classify(l label.Label) (tea.Model, tea.Cmd) {
	cur := m.session.Current()
	if cur == "" {
		m.statusMsg = "No video loaded."
		return m, nil
	}

	_ = m.engine.Unload()

	p, err := m.session.Classify(l)
	if err != nil {
		if errors.Is(err, triage.ErrLocked) {
			m.warnTitle = "Move failed"
			m.warnBody = fmt.Sprintf(
				"Could not move file (is it open elsewhere?):\n%s", cur)
			return m.reloadCurrent()
		}
		m.statusMsg = err.Error()
		return m, nil
	}

	m.statusMsg = fmt.Sprintf("%s: %s -> %s", l.Name,
		filepath.Base(p.Original), shortenPath(p.Dest, 40))
	return m.loadCurrent()
}

// skip advances without touching the filesystem. Skips are permanent.
func (m Model) skip() (tea.Model, tea.Cmd) {
	cur := m.session.Current()
	if cur == "" {
		return m, nil
	}

	_ = m.engine.Unload()

	if err := m.session.Skip(); err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Skipped %s", filepath.Base(cur))
	return m.loadCurrent()
}

// undo reverses the most recent move or copy and brings the item back.
func (m Model) undo() (tea.Model, tea.Cmd) {
	_ = m.engine.Unload()

	restored, err := m.session.Undo()
	if err != nil {
		if errors.Is(err, triage.ErrNothingToDo) {
			m.statusMsg = "Nothing to undo."
			return m, nil
		}
		m.statusMsg = err.Error()
		return m, nil
	}
	m.statusMsg = fmt.Sprintf("Undid %s", filepath.Base(restored))
	return m.loadCurrent()
}

// loadCurrent points the engine at the queue front, or goes idle when
// the backlog is done.
func (m Model) loadCurrent() (Model, tea.Cmd) {
	cur := m.session.Current()
	if cur == "" {
		m.statusMsg = "All videos labeled."
		m.loading = false
		m.position = 0
		m.duration = 0
		return m, nil
	}

	m.loading = true
	m.position = 0
	m.duration = 0
	m.scrubbing = false
	m.paused = false

	if err := m.engine.Load(cur); err != nil {
		m.statusMsg = err.Error()
		m.loading = false
		return m, nil
	}
	_ = m.engine.SetPause(false)

	return m, m.spinner.Tick
}

// reloadCurrent re-attaches the current item after a failed move so the
// user can retry or skip.
func (m Model) reloadCurrent() (Model, tea.Cmd) {
	cur := m.session.Current()
	if cur == "" {
		return m, nil
	}
	m.loading = true
	if err := m.engine.Load(cur); err != nil {
		m.statusMsg = err.Error()
		m.loading = false
		return m, nil
	}
	_ = m.engine.SetPause(false)
	m.paused = false
	return m, m.spinner.Tick
}

// Run starts the TUI program and blocks until it exits, loading the
// first queued item before handing control to Bubble Tea.
func Run(m Model) error {
	first, _ := m.loadCurrent()
	p := tea.NewProgram(first, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
