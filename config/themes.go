package config

import (
	"slices"
	"strings"
)

// ThemeOption is a built-in theme and the label shown in listings.
type ThemeOption struct {
	Name  string
	Label string
}

var builtinThemes = []ThemeOption{
	{Name: "raven-blue", Label: "Raven Blue"},
	{Name: "crow-black", Label: "Crow Black"},
	{Name: "magpie-black-white-grey", Label: "Magpie Black/White/Grey"},
	{Name: "catppuccin-mocha", Label: "Catppuccin Mocha"},
}

// ThemeOptions returns the built-in themes, default first.
func ThemeOptions() []ThemeOption {
	return slices.Clone(builtinThemes)
}

func findTheme(name string) (ThemeOption, bool) {
	name = strings.TrimSpace(name)
	i := slices.IndexFunc(builtinThemes, func(t ThemeOption) bool {
		return strings.EqualFold(t.Name, name)
	})
	if i < 0 {
		return ThemeOption{}, false
	}
	return builtinThemes[i], true
}

// KnownTheme reports whether name is a built-in theme.
func KnownTheme(name string) bool {
	_, ok := findTheme(name)
	return ok
}

// ThemeLabel returns the label of a theme; an empty name is the default
// theme and unknown names are returned as given.
func ThemeLabel(name string) string {
	if name == "" {
		return builtinThemes[0].Label
	}
	if t, ok := findTheme(name); ok {
		return t.Label
	}
	return name
}
