package render

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a straight-alpha RGBA color with components in [0, 1].
type Color [4]float32

// WithAlpha returns c with its alpha multiplied by a.
func (c Color) WithAlpha(a float32) Color {
	c[3] *= a
	return c
}

// Theme colors
type Theme struct {
	Name        string
	Background  Color
	Foreground  Color
	Cursor      Color // terminal cursor in interactive mode
	NavCursor   Color // caret in navigation mode
	CurrentLine Color
	TabBar      Color
	TabActive   Color
	Selection   Color
	SearchMatch Color
}

// DefaultTheme returns the default color theme
func DefaultTheme() Theme {
	return ThemeByName("raven-blue")
}

// ThemeByName returns a theme for a known theme name.
func ThemeByName(name string) Theme {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "crow-black":
		return Theme{
			Name:        "crow-black",
			Background:  Color{0.020, 0.020, 0.020, 1.0}, // #050505
			Foreground:  Color{0.902, 0.902, 0.902, 1.0}, // #e6e6e6
			Cursor:      Color{0.965, 0.965, 0.965, 1.0}, // #f6f6f6
			NavCursor:   Color{0.702, 0.702, 0.702, 1.0},
			CurrentLine: Color{1.000, 1.000, 1.000, 0.06},
			TabBar:      Color{0.000, 0.000, 0.000, 1.0}, // #000000
			TabActive:   Color{0.702, 0.702, 0.702, 1.0}, // #b3b3b3
			Selection:   Color{0.702, 0.702, 0.702, 0.35},
			SearchMatch: Color{0.902, 0.902, 0.902, 0.8},
		}
	case "magpie-black-white-grey", "magpie-black-and-white-grey":
		return Theme{
			Name:        "magpie-black-white-grey",
			Background:  Color{0.067, 0.067, 0.067, 1.0}, // #111111
			Foreground:  Color{0.961, 0.961, 0.961, 1.0}, // #f5f5f5
			Cursor:      Color{1.000, 1.000, 1.000, 1.0}, // #ffffff
			NavCursor:   Color{0.816, 0.816, 0.816, 1.0},
			CurrentLine: Color{1.000, 1.000, 1.000, 0.06},
			TabBar:      Color{0.039, 0.039, 0.039, 1.0}, // #0a0a0a
			TabActive:   Color{0.816, 0.816, 0.816, 1.0}, // #d0d0d0
			Selection:   Color{0.816, 0.816, 0.816, 0.35},
			SearchMatch: Color{1.000, 1.000, 1.000, 0.8},
		}
	case "catppuccin-mocha", "catppuccin", "catpuccin":
		return Theme{
			Name:        "catppuccin-mocha",
			Background:  Color{0.118, 0.118, 0.180, 1.0}, // #1e1e2e
			Foreground:  Color{0.804, 0.839, 0.957, 1.0}, // #cdd6f4
			Cursor:      Color{0.961, 0.761, 0.906, 1.0}, // #f5c2e7
			NavCursor:   Color{0.537, 0.706, 0.980, 1.0}, // #89b4fa
			CurrentLine: Color{0.192, 0.196, 0.267, 0.6}, // #313244
			TabBar:      Color{0.094, 0.094, 0.145, 1.0}, // #181825
			TabActive:   Color{0.537, 0.706, 0.980, 1.0}, // #89b4fa
			Selection:   Color{0.537, 0.706, 0.980, 0.35},
			SearchMatch: Color{0.976, 0.886, 0.686, 1.0}, // #f9e2af
		}
	default:
		return Theme{
			Name:        "raven-blue",
			Background:  Color{0.051, 0.063, 0.102, 1.0}, // #0d101a
			Foreground:  Color{0.910, 0.929, 0.969, 1.0}, // #e8edf7
			Cursor:      Color{0.635, 0.878, 0.780, 1.0}, // #a2e0c7
			NavCursor:   Color{0.455, 0.714, 1.000, 1.0},
			CurrentLine: Color{0.455, 0.714, 1.000, 0.08},
			TabBar:      Color{0.039, 0.047, 0.078, 1.0}, // #0a0c14
			TabActive:   Color{0.455, 0.714, 1.0, 1.0},   // #74b6ff
			Selection:   Color{0.455, 0.714, 1.0, 0.35},
			SearchMatch: Color{0.843, 0.729, 0.490, 1.0},
		}
	}
}

// ParseHex parses "#rrggbb" (alpha 1) or "#rrggbbaa".
func ParseHex(s string) (Color, error) {
	s = strings.TrimSpace(s)
	alpha := float32(1)
	if len(s) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(s[7:], "%02x", &a); err != nil {
			return Color{}, fmt.Errorf("parse alpha in %q: %w", s, err)
		}
		alpha = float32(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return Color{float32(c.R), float32(c.G), float32(c.B), alpha}, nil
}

// Overrides replaces theme colors by name ("background", "foreground",
// "cursor", "selection", "search_match", "current_line", "nav_cursor").
// Unknown names and unparsable values are reported together.
func (t Theme) Overrides(colors map[string]string) (Theme, error) {
	var bad []string
	for name, value := range colors {
		c, err := ParseHex(value)
		if err != nil {
			bad = append(bad, name)
			continue
		}
		switch strings.ToLower(name) {
		case "background":
			t.Background = c
		case "foreground":
			t.Foreground = c
		case "cursor":
			t.Cursor = c
		case "nav_cursor":
			t.NavCursor = c
		case "current_line":
			t.CurrentLine = c
		case "selection":
			t.Selection = c
		case "search_match":
			t.SearchMatch = c
		default:
			bad = append(bad, name)
		}
	}
	if len(bad) > 0 {
		return t, fmt.Errorf("invalid color overrides: %s", strings.Join(bad, ", "))
	}
	return t, nil
}
