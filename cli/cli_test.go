package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/session"
	"github.com/javanhut/RavenPanel/tab"
)

const testConfig = `
theme = "crow-black"
font_size = 18
default_profile = "work"

[[profiles]]
name = "work"
command = "/bin/sh"
args = ["-l"]

[[profiles]]
name = "plain"
command = "/bin/bash"

[colors]
background = "#102030"
`

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPrepareAppliesFlags(t *testing.T) {
	path := writeConfig(t, testConfig)
	env, err := Prepare(context.Background(), Flags{ConfigPath: path, Theme: "magpie-black-white-grey", FontSize: 500, Profile: "PLAIN"})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if env.Theme.Name != "magpie-black-white-grey" {
		t.Fatalf("theme = %q", env.Theme.Name)
	}
	want, _ := render.ParseHex("#102030")
	if env.Theme.Background != want {
		t.Fatalf("background override = %v, want %v", env.Theme.Background, want)
	}
	if env.Config.FontSize != config.MaxFontSize {
		t.Fatalf("font size = %v, want clamp to %v", env.Config.FontSize, config.MaxFontSize)
	}
	if env.Startup.Name != "plain" {
		t.Fatalf("startup profile = %q", env.Startup.Name)
	}
	opts := env.PanelOptions(render.TextMetrics, nil)
	if opts.DefaultProfile.Name != "plain" || len(opts.Profiles) != 2 || opts.NewSession == nil {
		t.Fatalf("panel options = %+v", opts)
	}
}

func TestPrepareDefaultProfileFromConfig(t *testing.T) {
	env, err := Prepare(context.Background(), Flags{ConfigPath: writeConfig(t, testConfig)})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if env.Startup.Name != "work" || env.Theme.Name != "crow-black" {
		t.Fatalf("startup = %q theme = %q", env.Startup.Name, env.Theme.Name)
	}
}

func TestPrepareUnknownProfile(t *testing.T) {
	_, err := Prepare(context.Background(), Flags{ConfigPath: writeConfig(t, testConfig), Profile: "nope"})
	if !errors.Is(err, config.ErrUnknownProfile) {
		t.Fatalf("expected ErrUnknownProfile, got %v", err)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(nil)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestProfilesCommand(t *testing.T) {
	out, err := execute(t, "profiles", "--config", writeConfig(t, testConfig))
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 profiles, got %q", out)
	}
	if !strings.HasPrefix(lines[0], "* work") || !strings.Contains(lines[0], "/bin/sh -l") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "  plain") {
		t.Fatalf("unexpected second line %q", lines[1])
	}
}

func TestThemesCommand(t *testing.T) {
	out, err := execute(t, "themes")
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	for _, opt := range config.ThemeOptions() {
		if !strings.Contains(out, opt.Name) {
			t.Errorf("themes output missing %q:\n%s", opt.Name, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), " ") != 1 {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestRunWithoutWindowFrontend(t *testing.T) {
	_, err := execute(t, "run", "--config", writeConfig(t, testConfig))
	if !errors.Is(err, ErrNoFrontend) {
		t.Fatalf("expected ErrNoFrontend, got %v", err)
	}
}

func TestRootRunsWindowFrontend(t *testing.T) {
	var got *Env
	cmd := NewRootCmd(func(ctx context.Context, env *Env) error {
		got = env
		return nil
	})
	cmd.SetArgs([]string{"--config", writeConfig(t, testConfig), "--theme", "crow-black"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got == nil || got.Theme.Name != "crow-black" {
		t.Fatalf("front-end env = %+v", got)
	}
}

type pipeBackend struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu    sync.Mutex
	input bytes.Buffer
}

func (b *pipeBackend) Read(p []byte) (int, error) { return b.r.Read(p) }
func (b *pipeBackend) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input.Write(p)
}
func (b *pipeBackend) Resize(cols, rows uint16) error { return nil }
func (b *pipeBackend) Close() error                   { return b.r.Close() }

func (b *pipeBackend) written() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.input.String()
}

func screenText(s tcell.Screen) string {
	w, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ch, _, _, _ := s.GetContent(x, y)
			if ch == 0 {
				ch = ' '
			}
			b.WriteRune(ch)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestRunTUI(t *testing.T) {
	env, err := Prepare(context.Background(), Flags{ConfigPath: writeConfig(t, testConfig)})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	backends := make(chan *pipeBackend, 1)
	env.Sessions = func(profile config.Profile, cols, lines int) (tab.Session, error) {
		r, w := io.Pipe()
		b := &pipeBackend{r: r, w: w}
		backends <- b
		return session.New(b, session.Options{Cols: cols, Lines: lines}), nil
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	done := make(chan error, 1)
	go func() { done <- RunTUI(context.Background(), env, screen) }()

	var b *pipeBackend
	select {
	case b = <-backends:
	case <-time.After(3 * time.Second):
		t.Fatal("no session started")
	}
	if _, err := b.w.Write([]byte("hello from shell")); err != nil {
		t.Fatalf("write output: %v", err)
	}
	waitFor(t, "shell output on screen", func() bool {
		return strings.Contains(screenText(screen), "hello from shell")
	})
	if !strings.Contains(screenText(screen), "work") {
		t.Fatalf("tab title missing:\n%s", screenText(screen))
	}

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	waitFor(t, "key forwarded to session", func() bool { return b.written() == "x" })

	screen.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunTUI: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("RunTUI did not exit on Ctrl+Q")
	}
}
