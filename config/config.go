// Package config loads and saves the panel configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrUnknownProfile is returned when a profile name matches no profile.
var ErrUnknownProfile = errors.New("unknown profile")

const (
	DefaultFontSize     = 15.0
	DefaultScrollback   = 10000
	DefaultMultiClickMS = 500
	MinFontSize         = 6.0
	MaxFontSize         = 72.0
)

// ShellConfig holds shell-specific settings
type ShellConfig struct {
	// Path to shell binary (empty = system default)
	Path string   `toml:"path"`
	Args []string `toml:"args"`
	// Env extra environment variables
	Env map[string]string `toml:"env"`
}

// Profile is a named command a tab can run.
type Profile struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Env     map[string]string `toml:"env"`
	Workdir string            `toml:"workdir"`
}

// ColorsConfig overrides theme colors with hex values.
type ColorsConfig struct {
	Background  string `toml:"background"`
	Foreground  string `toml:"foreground"`
	Cursor      string `toml:"cursor"`
	Selection   string `toml:"selection"`
	SearchMatch string `toml:"search_match"`
}

// Map returns the non-empty overrides keyed by theme color name.
func (c ColorsConfig) Map() map[string]string {
	out := make(map[string]string)
	for name, value := range map[string]string{
		"background":   c.Background,
		"foreground":   c.Foreground,
		"cursor":       c.Cursor,
		"selection":    c.Selection,
		"search_match": c.SearchMatch,
	} {
		if value != "" {
			out[name] = value
		}
	}
	return out
}

// Config holds the panel configuration
type Config struct {
	Theme          string       `toml:"theme"`
	Font           string       `toml:"font"`
	FontSize       float32      `toml:"font_size"`
	Scrollback     int          `toml:"scrollback"`
	MultiClickMS   int          `toml:"multi_click_ms"`
	WordSeparators string       `toml:"word_separators"`
	Shell          ShellConfig  `toml:"shell"`
	Profiles       []Profile    `toml:"profiles"`
	DefaultProfile string       `toml:"default_profile"`
	Colors         ColorsConfig `toml:"colors"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Theme:        "raven-blue",
		Font:         "gomono",
		FontSize:     DefaultFontSize,
		Scrollback:   DefaultScrollback,
		MultiClickMS: DefaultMultiClickMS,
		Shell: ShellConfig{
			Env: map[string]string{},
		},
	}
}

// GetConfigDir returns the config directory path
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".config/raven-panel"
	}
	return filepath.Join(homeDir, ".config", "raven-panel")
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.toml")
}

// Load loads the configuration from the default path, writing the defaults
// there when no file exists yet.
func Load() (*Config, error) {
	configPath := GetConfigPath()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		cfg := DefaultConfig()
		if err := cfg.SaveFile(configPath); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile reads a config file over the defaults. A missing file yields the
// defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.FontSize <= 0 {
		c.FontSize = DefaultFontSize
	}
	c.FontSize = min(max(c.FontSize, MinFontSize), MaxFontSize)
	if c.Scrollback < 0 {
		c.Scrollback = 0
	}
	if c.MultiClickMS <= 0 {
		c.MultiClickMS = DefaultMultiClickMS
	}
	if c.Shell.Env == nil {
		c.Shell.Env = map[string]string{}
	}
}

// Save saves the configuration to the default path
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes the configuration as TOML, creating parent directories.
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// GetAvailableShells returns a list of available shells on the system
func GetAvailableShells() []string {
	shells := []string{}
	possibleShells := []string{
		"/bin/bash",
		"/usr/bin/bash",
		"/bin/zsh",
		"/usr/bin/zsh",
		"/bin/fish",
		"/usr/bin/fish",
		"/bin/sh",
		"/usr/bin/sh",
		"/bin/dash",
		"/usr/bin/dash",
	}

	seen := make(map[string]bool)
	for _, shell := range possibleShells {
		if _, err := os.Stat(shell); err == nil {
			base := filepath.Base(shell)
			if !seen[base] {
				seen[base] = true
				shells = append(shells, shell)
			}
		}
	}
	return shells
}

// ResolvedProfiles returns the configured profiles, or one per shell found
// on the system when none are configured. The [shell] section, when set,
// comes first as the "default" profile.
func (c *Config) ResolvedProfiles() []Profile {
	return c.resolveProfiles(GetAvailableShells())
}

func (c *Config) resolveProfiles(shells []string) []Profile {
	var out []Profile
	if c.Shell.Path != "" {
		out = append(out, Profile{
			Name:    "default",
			Command: c.Shell.Path,
			Args:    c.Shell.Args,
			Env:     c.Shell.Env,
		})
	}
	if len(c.Profiles) > 0 {
		return append(out, c.Profiles...)
	}
	for _, sh := range shells {
		out = append(out, Profile{Name: filepath.Base(sh), Command: sh, Env: c.Shell.Env})
	}
	return out
}

// Profile finds a profile by name, case-insensitively.
func (c *Config) Profile(name string) (Profile, error) {
	for _, p := range c.ResolvedProfiles() {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %q", ErrUnknownProfile, name)
}

// StartupProfile is the profile new tabs run: default_profile when it names
// a profile, otherwise the first resolved profile. The zero Profile means the
// system login shell.
func (c *Config) StartupProfile() Profile {
	if c.DefaultProfile != "" {
		if p, err := c.Profile(c.DefaultProfile); err == nil {
			return p
		}
	}
	if profiles := c.ResolvedProfiles(); len(profiles) > 0 {
		return profiles[0]
	}
	return Profile{}
}
