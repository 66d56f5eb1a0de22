package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Theme != "raven-blue" || cfg.FontSize != DefaultFontSize || cfg.MultiClickMS != DefaultMultiClickMS {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
theme = "crow-black"
font_size = 200
multi_click_ms = 300
word_separators = " ,"
default_profile = "work"

[shell]
path = "/bin/sh"

[[profiles]]
name = "work"
command = "/bin/bash"
args = ["-l"]
workdir = "/tmp"

[colors]
background = "#101010"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Theme != "crow-black" || cfg.MultiClickMS != 300 || cfg.WordSeparators != " ," {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.FontSize != MaxFontSize {
		t.Fatalf("font size not clamped: %v", cfg.FontSize)
	}
	if cfg.Scrollback != DefaultScrollback {
		t.Fatalf("scrollback default lost: %d", cfg.Scrollback)
	}
	if got := cfg.Colors.Map(); len(got) != 1 || got["background"] != "#101010" {
		t.Fatalf("colors = %v", got)
	}

	p := cfg.StartupProfile()
	if p.Name != "work" || p.Command != "/bin/bash" || p.Workdir != "/tmp" || len(p.Args) != 1 {
		t.Fatalf("startup profile = %+v", p)
	}
	if profiles := cfg.ResolvedProfiles(); len(profiles) != 2 || profiles[0].Name != "default" {
		t.Fatalf("profiles = %+v", profiles)
	}
}

func TestLoadFileBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("theme = ["), 0o644)
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSaveFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Theme = "catppuccin-mocha"
	cfg.Profiles = []Profile{{Name: "fish", Command: "/usr/bin/fish"}}
	if err := cfg.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	got, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if got.Theme != "catppuccin-mocha" || len(got.Profiles) != 1 || got.Profiles[0].Command != "/usr/bin/fish" {
		t.Fatalf("loaded = %+v", got)
	}
}

func TestUnknownProfile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Profiles = []Profile{{Name: "a", Command: "/bin/sh"}}
	if _, err := cfg.Profile("b"); !errors.Is(err, ErrUnknownProfile) {
		t.Fatalf("err = %v", err)
	}
	if p, err := cfg.Profile("A"); err != nil || p.Name != "a" {
		t.Fatalf("case-insensitive lookup failed: %+v %v", p, err)
	}
}

func TestProfilesFromShells(t *testing.T) {
	cfg := DefaultConfig()
	got := cfg.resolveProfiles([]string{"/bin/bash", "/usr/bin/zsh"})
	if len(got) != 2 || got[0].Name != "bash" || got[1].Command != "/usr/bin/zsh" {
		t.Fatalf("profiles = %+v", got)
	}
}

func TestThemeLabel(t *testing.T) {
	if ThemeLabel("") != "Raven Blue" || ThemeLabel("crow-black") != "Crow Black" || ThemeLabel("x") != "x" {
		t.Fatalf("labels wrong")
	}
}

func TestKnownTheme(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"raven-blue", true},
		{" Catppuccin-Mocha ", true},
		{"solarized", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := KnownTheme(tc.name); got != tc.want {
			t.Errorf("KnownTheme(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
	opts := ThemeOptions()
	opts[0].Name = "changed"
	if ThemeOptions()[0].Name != "raven-blue" {
		t.Fatal("ThemeOptions must return a copy")
	}
}
