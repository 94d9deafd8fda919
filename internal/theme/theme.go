// Package theme provides terminal theming with automatic detection.
// Colors are read from Alacritty, Kitty, or Foot terminal configurations,
// with VIDSORT_* environment variable overrides available.
package theme

import "github.com/charmbracelet/lipgloss"

// Palette holds the color scheme for the TUI
type Palette struct {
	BG       string // background
	FG       string // foreground (primary text)
	Muted    string // timestamps, secondary info
	Accent   string // active label keys, progress fill
	AccentBg string // selection background
	Warn     string // warnings and errors
}

// DefaultPalette returns the fallback amber-on-dark theme
func DefaultPalette() Palette {
	return Palette{
		BG:       "#0a0a0a",
		FG:       "#d4a017",
		Muted:    "#6b6b4f",
		Accent:   "#8bc34a",
		AccentBg: "#1a1a14",
		Warn:     "#ff6b6b",
	}
}

// Styles holds all lipgloss styles derived from a palette
type Styles struct {
	Title         lipgloss.Style
	StatusBar     lipgloss.Style
	QueueRow      lipgloss.Style
	QueueCurrent  lipgloss.Style
	LabelKey      lipgloss.Style
	LabelName     lipgloss.Style
	TimeLabel     lipgloss.Style
	SpeedBadge    lipgloss.Style
	ScrubPending  lipgloss.Style
	Muted         lipgloss.Style
	Warn          lipgloss.Style
	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style
	ModalBox      lipgloss.Style
	ModalTitle    lipgloss.Style
	ProgressEmpty lipgloss.Style
}

// NewStyles creates styles from a palette
func NewStyles(p Palette) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		QueueRow: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		QueueCurrent: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Background(lipgloss.Color(p.AccentBg)).
			Bold(true),

		LabelKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)).
			Bold(true),

		LabelName: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		TimeLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		SpeedBadge: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Accent)),

		ScrubPending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warn)).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warn)),

		HelpKey: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),

		HelpDesc: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Muted)).
			Padding(0, 1),

		PanelTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.FG)).
			Bold(true),

		ModalBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(p.Warn)).
			Padding(1, 2),

		ModalTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Warn)).
			Bold(true),

		ProgressEmpty: lipgloss.NewStyle().
			Foreground(lipgloss.Color(p.Muted)),
	}
}

// Current holds the active palette and styles
var Current Styles
var CurrentPalette Palette

func init() {
	CurrentPalette = Detect()
	Current = NewStyles(CurrentPalette)
}

// Refresh reloads the theme from config files
func Refresh() {
	CurrentPalette = Detect()
	Current = NewStyles(CurrentPalette)
}
