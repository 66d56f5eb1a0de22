// Package clipboard abstracts the system clipboard.
package clipboard

import (
	"context"
	"sync"

	"github.com/atotto/clipboard"
	"pkt.systems/pslog"
)

// Clipboard reads and writes plain text.
type Clipboard interface {
	// GetText returns the clipboard text; false when empty or unavailable.
	GetText() (string, bool)
	PutText(text string)
}

// System is the desktop clipboard. Failures are logged and otherwise ignored.
type System struct {
	log pslog.Logger
}

// NewSystem returns the desktop clipboard.
func NewSystem(logger pslog.Logger) *System {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &System{log: logger}
}

// Available reports whether a clipboard utility was found.
func (s *System) Available() bool { return !clipboard.Unsupported }

func (s *System) GetText() (string, bool) {
	text, err := clipboard.ReadAll()
	if err != nil {
		s.log.Warn("clipboard read failed", "err", err)
		return "", false
	}
	return text, text != ""
}

func (s *System) PutText(text string) {
	if err := clipboard.WriteAll(text); err != nil {
		s.log.Warn("clipboard write failed", "err", err)
	}
}

// Memory is a process-local clipboard.
type Memory struct {
	mu   sync.Mutex
	text string
}

func (m *Memory) GetText() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text, m.text != ""
}

func (m *Memory) PutText(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
}
