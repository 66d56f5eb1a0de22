// Package window hosts the panel in a GLFW window with an OpenGL context.
package window

import (
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/javanhut/RavenPanel/icons"
)

func init() {
	// GLFW event handling must run on the main thread
	runtime.LockOSThread()
}

// Config holds window configuration
type Config struct {
	Width  int
	Height int
	Title  string
}

// DefaultConfig returns the default window configuration
func DefaultConfig() Config {
	return Config{
		Width:  900,
		Height: 600,
		Title:  "Raven Panel",
	}
}

// geometry is a window position and size in screen coordinates.
type geometry struct {
	x, y, w, h int
}

// Window is a GLFW window owning the current OpenGL context.
type Window struct {
	glfw *glfw.Window
	// windowed is the geometry to restore when leaving fullscreen; nil while
	// windowed.
	windowed *geometry
}

var contextHints = []struct {
	hint  glfw.Hint
	value int
}{
	{glfw.ContextVersionMajor, 4},
	{glfw.ContextVersionMinor, 1},
	{glfw.OpenGLProfile, glfw.OpenGLCoreProfile},
	{glfw.OpenGLForwardCompatible, glfw.True},
	{glfw.Resizable, glfw.True},
	{glfw.DoubleBuffer, glfw.True},
}

// New creates a GLFW window and makes its OpenGL context current.
func New(config Config) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initialize GLFW: %w", err)
	}
	for _, h := range contextHints {
		glfw.WindowHint(h.hint, h.value)
	}
	// X11 class for WM rules (Hyprland, i3, etc.)
	glfw.WindowHintString(glfw.X11ClassName, "raven-panel")
	glfw.WindowHintString(glfw.X11InstanceName, "raven-panel")

	win, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("initialize OpenGL: %w", err)
	}
	glfw.SwapInterval(1)

	if imgs := icons.WindowIcons(); len(imgs) > 0 {
		win.SetIcon(imgs)
	}
	return &Window{glfw: win}, nil
}

// GLFW returns the underlying GLFW window
func (w *Window) GLFW() *glfw.Window {
	return w.glfw
}

// GetFramebufferSize returns the framebuffer size
func (w *Window) GetFramebufferSize() (int, int) {
	return w.glfw.GetFramebufferSize()
}

// Scale returns the framebuffer pixels per window coordinate.
func (w *Window) Scale() (float32, float32) {
	ww, wh := w.glfw.GetSize()
	fw, fh := w.glfw.GetFramebufferSize()
	if ww <= 0 || wh <= 0 {
		return 1, 1
	}
	return float32(fw) / float32(ww), float32(fh) / float32(wh)
}

// ShouldClose returns true if the window should close
func (w *Window) ShouldClose() bool {
	return w.glfw.ShouldClose()
}

// SwapBuffers swaps the front and back buffers
func (w *Window) SwapBuffers() {
	w.glfw.SwapBuffers()
}

// ToggleFullscreen moves the window onto the primary monitor at its video
// mode, or back to where it was.
func (w *Window) ToggleFullscreen() {
	if g := w.windowed; g != nil {
		w.glfw.SetMonitor(nil, g.x, g.y, g.w, g.h, 0)
		w.windowed = nil
		return
	}
	g := &geometry{}
	g.x, g.y = w.glfw.GetPos()
	g.w, g.h = w.glfw.GetSize()
	w.windowed = g

	monitor := glfw.GetPrimaryMonitor()
	mode := monitor.GetVideoMode()
	w.glfw.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
}

// Destroy cleans up window resources
func (w *Window) Destroy() {
	w.glfw.Destroy()
	glfw.Terminate()
}

// WaitEvents processes pending events, sleeping at most timeout seconds
// when there are none.
func WaitEvents(timeout float64) {
	glfw.WaitEventsTimeout(timeout)
}

// Clipboard is the GLFW clipboard. It must only be used on the main thread.
type Clipboard struct{}

func (Clipboard) GetText() (string, bool) {
	s := glfw.GetClipboardString()
	return s, s != ""
}

func (Clipboard) PutText(text string) {
	glfw.SetClipboardString(text)
}
