package picker

import (
	"strings"
	"testing"

	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/keybindings"
)

func profiles() []config.Profile {
	return []config.Profile{
		{Name: "bash", Command: "/bin/bash"},
		{Name: "zsh", Command: "/usr/bin/zsh"},
		{Name: "htop", Command: "/usr/bin/htop", Args: []string{"-d", "10"}},
	}
}

func key(k keybindings.Key) keybindings.Event { return keybindings.Event{Key: k} }

func TestFilterAndChoose(t *testing.T) {
	p := New(profiles(), nil)
	p.Open()
	if len(p.Items) != 3 {
		t.Fatalf("items = %d", len(p.Items))
	}
	for _, r := range "sh" {
		p.HandleKey(keybindings.Event{Key: keybindings.KeyRune, Rune: r})
	}
	if len(p.Items) != 2 {
		t.Fatalf("filtered items = %+v", p.Items)
	}
	p.HandleKey(key(keybindings.KeyDown))
	out, prof := p.HandleKey(key(keybindings.KeyEnter))
	if out != OutcomeChosen || prof.Name != "zsh" {
		t.Fatalf("chose %v %+v", out, prof)
	}
	if p.IsOpen() {
		t.Fatalf("picker still open")
	}
}

func TestMoveWrapsAndEscapeDismisses(t *testing.T) {
	p := New(profiles(), nil)
	p.Open()
	p.MoveUp()
	if p.SelectedIndex != 2 {
		t.Fatalf("selected = %d", p.SelectedIndex)
	}
	p.MoveDown()
	if p.SelectedIndex != 0 {
		t.Fatalf("selected = %d", p.SelectedIndex)
	}
	if out, _ := p.HandleKey(key(keybindings.KeyEscape)); out != OutcomeDismissed || p.IsOpen() {
		t.Fatalf("escape outcome = %v", out)
	}
}

func TestEnterWithNoMatchesDoesNothing(t *testing.T) {
	p := New(profiles(), nil)
	p.Open()
	p.HandleChar('q')
	if out, _ := p.HandleKey(key(keybindings.KeyEnter)); out != OutcomeNone || !p.IsOpen() {
		t.Fatalf("outcome = %v open = %v", out, p.IsOpen())
	}
	p.HandleBackspace()
	if len(p.Items) != 3 {
		t.Fatalf("backspace did not widen filter")
	}
}

func TestLabelAlignsCommand(t *testing.T) {
	p := New(profiles(), nil)
	p.Open()
	l := p.Items[2].Label
	if !strings.HasPrefix(l, "htop ") || !strings.HasSuffix(l, "/usr/bin/htop -d 10") {
		t.Fatalf("label = %q", l)
	}
	if strings.Index(p.Items[0].Label, "/") != strings.Index(l, "/") {
		t.Fatalf("commands not aligned")
	}
}
