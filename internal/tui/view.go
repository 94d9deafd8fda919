package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/litescript/ls-vidsort-tui/internal/theme"
	"github.com/litescript/ls-vidsort-tui/internal/version"
)

// GetStyles returns current themed styles
func GetStyles() theme.Styles {
	return theme.Current
}

func (m Model) View() string {
	styles := GetStyles()

	var b strings.Builder

	b.WriteString(styles.Title.Render("VIDSORT"))
	b.WriteString(styles.Muted.Render("  v" + version.Version))
	if m.updateNotice != "" {
		b.WriteString(styles.Muted.Render("  · " + m.updateNotice))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")
	b.WriteString(m.renderTransport())
	b.WriteString("\n\n")

	b.WriteString(m.renderLabels())
	b.WriteString("\n")
	b.WriteString(m.renderQueue())
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	b.WriteString("\n")
	b.WriteString(styles.StatusBar.Render(m.statusMsg))

	if m.warnBody != "" {
		return m.overlayModal(m.renderWarnModal())
	}
	if m.confirmingQuit {
		return m.overlayModal(m.renderQuitModal())
	}

	return b.String()
}

func (m Model) renderNowPlaying() string {
	styles := GetStyles()

	cur := m.session.Current()
	if cur == "" {
		return styles.Panel.Render(styles.Muted.Render("Queue empty, all videos labeled."))
	}

	line := styles.PanelTitle.Render(filepath.Base(cur))
	if m.loading {
		line = m.spinner.View() + " " + line
	}

	meta := fmt.Sprintf("%d remaining · mode: %s · undo depth: %d",
		m.session.Remaining(), m.session.Mode(), m.session.UndoDepth())

	return styles.Panel.Render(line + "\n" + styles.Muted.Render(meta))
}

// renderTransport draws the position bar, clock, speed, and pause state.
// While scrubbing, the clock shows the pending target instead of the
// live position.
func (m Model) renderTransport() string {
	styles := GetStyles()

	shown := m.position
	if m.scrubbing {
		shown = m.scrubPos
	}

	var frac float64
	if m.duration > 0 {
		frac = shown / m.duration
	}

	clock := fmt.Sprintf("%s / %s", formatClock(shown), formatClock(m.duration))
	clockStyle := styles.TimeLabel
	if m.scrubbing {
		clockStyle = styles.ScrubPending
		clock += " (seek pending)"
	}

	state := ""
	if m.paused {
		state = styles.Muted.Render("  ⏸")
	}

	speed := styles.SpeedBadge.Render(fmt.Sprintf(" %.1fx", speedSteps[m.speedIdx]))

	return m.posBar.ViewAs(frac) + "  " + clockStyle.Render(clock) + speed + state
}

func (m Model) renderLabels() string {
	styles := GetStyles()

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Labels"))
	b.WriteString("\n")
	for _, l := range m.labels {
		b.WriteString(styles.LabelKey.Render(l.Key))
		b.WriteString(styles.LabelName.Render(": " + l.Name + "  "))
		b.WriteString(styles.Muted.Render(shortenPath(l.Dest, 40)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderQueue() string {
	styles := GetStyles()

	upcoming := m.session.Peek(6)
	if len(upcoming) <= 1 {
		return ""
	}

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Up next"))
	b.WriteString("\n")
	for i, path := range upcoming {
		if i == 0 {
			continue // shown in the now-playing panel
		}
		b.WriteString(styles.QueueRow.Render("  " + filepath.Base(path)))
		b.WriteString("\n")
	}
	if extra := m.session.QueueLen() - len(upcoming); extra > 0 {
		b.WriteString(styles.Muted.Render(fmt.Sprintf("  … and %d more", extra)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderHelp() string {
	styles := GetStyles()

	pairs := []struct{ key, desc string }{
		{"s", "skip"},
		{"backspace", "undo"},
		{"space", "play/pause"},
		{"tab", "speed"},
		{"←/→", "scrub"},
		{"enter", "seek"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		parts = append(parts,
			styles.HelpKey.Render(p.key)+" "+styles.HelpDesc.Render(p.desc))
	}
	return styles.Muted.Render(strings.Join(parts, "  ·  "))
}

func (m Model) renderWarnModal() string {
	styles := GetStyles()
	content := styles.ModalTitle.Render(m.warnTitle) + "\n\n" +
		m.warnBody + "\n\n" +
		styles.Muted.Render("press any key to continue")
	return styles.ModalBox.Render(content)
}

func (m Model) renderQuitModal() string {
	styles := GetStyles()
	content := styles.ModalTitle.Render("Quit?") + "\n\n" +
		styles.HelpDesc.Render("y/enter to quit, any other key to stay")
	return styles.ModalBox.Render(content)
}

// overlayModal centers a modal in the window.
func (m Model) overlayModal(modal string) string {
	if m.width == 0 || m.height == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}
