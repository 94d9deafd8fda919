package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrNoSelection is returned when the picker is dismissed without
// choosing a directory.
var ErrNoSelection = errors.New("no directory selected")

// pickerModel wraps the bubbles filepicker for directory selection.
type pickerModel struct {
	picker   filepicker.Model
	selected string
	quitting bool
}

func (m pickerModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if didSelect, path := m.picker.DidSelectFile(msg); didSelect {
		m.selected = path
		return m, tea.Quit
	}

	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	styles := GetStyles()
	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render("Pick the source folder"))
	b.WriteString("\n\n")
	b.WriteString(m.picker.View())
	b.WriteString("\n")
	b.WriteString(styles.Muted.Render("enter to select · q to cancel"))
	return b.String()
}

// PickDirectory runs an interactive directory picker starting at start
// and returns the chosen path.
func PickDirectory(start string) (string, error) {
	fp := filepicker.New()
	fp.DirAllowed = true
	fp.FileAllowed = false
	fp.CurrentDirectory = start

	p := tea.NewProgram(pickerModel{picker: fp})
	final, err := p.Run()
	if err != nil {
		return "", err
	}

	m, ok := final.(pickerModel)
	if !ok || m.selected == "" {
		return "", ErrNoSelection
	}
	return m.selected, nil
}
