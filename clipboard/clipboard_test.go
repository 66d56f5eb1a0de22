package clipboard

import "testing"

func TestMemory(t *testing.T) {
	var m Memory
	if _, ok := m.GetText(); ok {
		t.Fatalf("empty clipboard reported text")
	}
	m.PutText("copied")
	if got, ok := m.GetText(); !ok || got != "copied" {
		t.Fatalf("GetText = %q, %v", got, ok)
	}
}

var (
	_ Clipboard = (*Memory)(nil)
	_ Clipboard = (*System)(nil)
)
