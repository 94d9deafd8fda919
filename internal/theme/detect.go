package theme

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/ini.v1"
)

// Detect attempts to load a palette from terminal configs in priority
// order: Alacritty, Kitty, Foot, then the built-in default. Environment
// overrides apply last.
func Detect() Palette {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultPalette()
	}

	if p, ok := detectAlacritty(home); ok {
		return applyEnvOverrides(p)
	}
	if p, ok := detectKitty(home); ok {
		return applyEnvOverrides(p)
	}
	if p, ok := detectFoot(home); ok {
		return applyEnvOverrides(p)
	}

	return applyEnvOverrides(DefaultPalette())
}

// alacrittyConfig covers the relevant parts of alacritty.toml
type alacrittyConfig struct {
	Colors struct {
		Primary struct {
			Background string `toml:"background"`
			Foreground string `toml:"foreground"`
		} `toml:"primary"`
		Selection struct {
			Background string `toml:"background"`
		} `toml:"selection"`
	} `toml:"colors"`
}

func detectAlacritty(home string) (Palette, bool) {
	paths := []string{
		filepath.Join(home, ".config", "alacritty", "alacritty.toml"),
		filepath.Join(home, ".alacritty.toml"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var cfg alacrittyConfig
		if toml.Unmarshal(data, &cfg) != nil {
			continue
		}
		if cfg.Colors.Primary.Background == "" || cfg.Colors.Primary.Foreground == "" {
			continue
		}

		return buildPalette(
			cfg.Colors.Primary.Background,
			cfg.Colors.Primary.Foreground,
			cfg.Colors.Selection.Background,
		), true
	}
	return Palette{}, false
}

// detectKitty parses kitty.conf's "key value" line format.
func detectKitty(home string) (Palette, bool) {
	data, err := os.ReadFile(filepath.Join(home, ".config", "kitty", "kitty.conf"))
	if err != nil {
		return Palette{}, false
	}

	var bg, fg, sel string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 2 {
			continue
		}
		switch parts[0] {
		case "background":
			bg = parts[1]
		case "foreground":
			fg = parts[1]
		case "selection_background":
			sel = parts[1]
		}
	}

	if bg == "" || fg == "" {
		return Palette{}, false
	}
	return buildPalette(bg, fg, sel), true
}

func detectFoot(home string) (Palette, bool) {
	cfg, err := ini.Load(filepath.Join(home, ".config", "foot", "foot.ini"))
	if err != nil {
		return Palette{}, false
	}

	colors := cfg.Section("colors")
	bg := colors.Key("background").String()
	fg := colors.Key("foreground").String()
	if bg == "" || fg == "" {
		return Palette{}, false
	}

	return buildPalette(bg, fg, colors.Key("selection-background").String()), true
}

// buildPalette derives the full palette from background, foreground, and
// an optional selection color.
func buildPalette(bg, fg, selection string) Palette {
	p := DefaultPalette()
	p.BG = normalizeHex(bg)
	p.FG = normalizeHex(fg)
	p.Muted = dimColor(p.FG, 0.5)
	if selection != "" {
		p.AccentBg = normalizeHex(selection)
	} else {
		p.AccentBg = mixColors(p.BG, p.FG, 0.15)
	}
	return p
}

// applyEnvOverrides applies VIDSORT_* environment variables
func applyEnvOverrides(p Palette) Palette {
	if v := os.Getenv("VIDSORT_BG"); v != "" {
		p.BG = normalizeHex(v)
	}
	if v := os.Getenv("VIDSORT_FG"); v != "" {
		p.FG = normalizeHex(v)
	}
	if v := os.Getenv("VIDSORT_MUTED"); v != "" {
		p.Muted = normalizeHex(v)
	}
	if v := os.Getenv("VIDSORT_ACCENT"); v != "" {
		p.Accent = normalizeHex(v)
	}
	return p
}

// normalizeHex ensures color is in #rrggbb format
func normalizeHex(color string) string {
	color = strings.TrimSpace(color)
	color = strings.TrimPrefix(strings.TrimPrefix(color, "0x"), "0X")
	color = strings.TrimPrefix(color, "#")

	// Expand shorthand rgb
	if len(color) == 3 && isHex(color) {
		color = string([]byte{
			color[0], color[0],
			color[1], color[1],
			color[2], color[2],
		})
	}

	if len(color) == 6 && isHex(color) {
		return "#" + strings.ToLower(color)
	}
	return "#" + color
}

func isHex(s string) bool {
	_, err := strconv.ParseUint(s, 16, 32)
	return err == nil
}

// dimColor reduces the brightness of a hex color
func dimColor(hex string, factor float64) string {
	r, g, b, ok := splitHex(hex)
	if !ok {
		return hex
	}
	return joinHex(
		byte(float64(r)*factor),
		byte(float64(g)*factor),
		byte(float64(b)*factor),
	)
}

// mixColors blends two colors together
func mixColors(hex1, hex2 string, t float64) string {
	r1, g1, b1, ok1 := splitHex(hex1)
	r2, g2, b2, ok2 := splitHex(hex2)
	if !ok1 || !ok2 {
		return hex1
	}
	return joinHex(
		byte(float64(r1)*(1-t)+float64(r2)*t),
		byte(float64(g1)*(1-t)+float64(g2)*t),
		byte(float64(b1)*(1-t)+float64(b2)*t),
	)
}

func splitHex(hex string) (r, g, b byte, ok bool) {
	hex = normalizeHex(hex)
	if len(hex) != 7 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return byte(v >> 16), byte(v >> 8), byte(v), true
}

func joinHex(r, g, b byte) string {
	return "#" + strconv.FormatUint(uint64(r)<<16|uint64(g)<<8|uint64(b)|0x1000000, 16)[1:]
}
