// Package session runs a child process on a pty and keeps its screen.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/grid"
	"github.com/javanhut/RavenPanel/parser"
	"github.com/javanhut/RavenPanel/shell"
)

var (
	// ErrClosed is returned by operations on a closed terminal.
	ErrClosed = errors.New("session closed")
	// ErrInvalidSize is returned for a resize below one cell.
	ErrInvalidSize = errors.New("invalid terminal size")
)

const readBufferSize = 32 * 1024

// Backend is the process side of a terminal.
type Backend interface {
	io.ReadWriter
	Resize(cols, rows uint16) error
	Close() error
}

// Options configures a Terminal.
type Options struct {
	Cols       int
	Lines      int
	Scrollback int
	Logger     pslog.Logger
}

// Terminal feeds backend output through the escape parser into a grid.
// All grid access goes through its mutex.
type Terminal struct {
	id      string
	backend Backend
	log     pslog.Logger

	mu     sync.Mutex
	parser *parser.Parser

	closed atomic.Bool
	exited atomic.Bool
	done   chan struct{}
}

// Start spawns the profile's command and returns a running terminal.
func Start(profile config.Profile, opts Options) (*Terminal, error) {
	opts = opts.withDefaults()
	pty, err := shell.NewPtySession(profile, uint16(opts.Cols), uint16(opts.Lines))
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return New(pty, opts), nil
}

// New wraps an already running backend and starts reading from it.
func New(backend Backend, opts Options) *Terminal {
	opts = opts.withDefaults()
	id := uuid.New().String()
	t := &Terminal{
		id:      id,
		backend: backend,
		log:     opts.Logger.With("session", id),
		parser:  parser.New(opts.Cols, opts.Lines, opts.Scrollback),
		done:    make(chan struct{}),
	}
	t.parser.SetResponseWriter(func(b []byte) {
		if _, err := t.backend.Write(b); err != nil {
			t.log.Debug("response write failed", "err", err)
		}
	})
	t.log.Debug("session started", "cols", opts.Cols, "lines", opts.Lines)
	go t.readLoop()
	return t
}

func (o Options) withDefaults() Options {
	if o.Cols <= 0 {
		o.Cols = 80
	}
	if o.Lines <= 0 {
		o.Lines = 24
	}
	if o.Scrollback < 0 {
		o.Scrollback = 0
	}
	if o.Logger == nil {
		o.Logger = pslog.Ctx(context.Background())
	}
	return o
}

func (t *Terminal) readLoop() {
	defer close(t.done)
	buf := make([]byte, readBufferSize)
	for {
		n, err := t.backend.Read(buf)
		if n > 0 {
			t.Feed(buf[:n])
		}
		if err != nil {
			if !t.closed.Load() && !errors.Is(err, io.EOF) {
				t.log.Debug("read ended", "err", err)
			}
			t.exited.Store(true)
			t.log.Debug("session exited")
			return
		}
	}
}

// Feed runs bytes through the parser as if the backend had produced them.
func (t *Terminal) Feed(data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parser.Advance(data)
}

// ID returns the terminal's unique identifier.
func (t *Terminal) ID() string { return t.id }

// WithGrid runs fn with the active screen locked.
func (t *Terminal) WithGrid(fn func(*grid.Grid)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.parser.Grid())
}

// Renderable copies the visible window of the active screen.
func (t *Terminal) Renderable() grid.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := t.parser.Grid().Snapshot()
	snap.CursorVisible = t.parser.CursorVisible()
	return snap
}

// Title is the window title last set by the program, if any.
func (t *Terminal) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parser.Title()
}

// WorkingDir is the directory last reported through OSC 7.
func (t *Terminal) WorkingDir() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parser.WorkingDir()
}

// AppCursorKeys reports whether arrow keys should use SS3 sequences.
func (t *Terminal) AppCursorKeys() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.parser.AppCursorKeys()
}

// Write sends input to the process.
func (t *Terminal) Write(data []byte) error {
	if t.closed.Load() || t.exited.Load() {
		return ErrClosed
	}
	if _, err := t.backend.Write(data); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Resize changes the pty and grid dimensions.
func (t *Terminal) Resize(cols, lines int) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if cols < 1 || lines < 1 {
		return ErrInvalidSize
	}
	t.mu.Lock()
	t.parser.Resize(cols, lines)
	t.mu.Unlock()
	if t.exited.Load() {
		return nil
	}
	if err := t.backend.Resize(uint16(cols), uint16(lines)); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// ScrollTo moves the display window of the active screen.
func (t *Terminal) ScrollTo(s grid.Scroll) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.parser.Grid().ScrollDisplay(s)
}

// Exited reports whether the process output has ended.
func (t *Terminal) Exited() bool { return t.exited.Load() }

// Done is closed once the read loop has stopped.
func (t *Terminal) Done() <-chan struct{} { return t.done }

// Close terminates the process. Later calls do nothing.
func (t *Terminal) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	err := t.backend.Close()
	<-t.done
	t.log.Debug("session closed")
	if err != nil {
		return fmt.Errorf("close session: %w", err)
	}
	return nil
}
