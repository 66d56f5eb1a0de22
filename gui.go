package main

import (
	"context"

	"github.com/javanhut/RavenPanel/cli"
	"github.com/javanhut/RavenPanel/clipboard"
	"github.com/javanhut/RavenPanel/fonts"
	"github.com/javanhut/RavenPanel/glrender"
	"github.com/javanhut/RavenPanel/keybindings"
	"github.com/javanhut/RavenPanel/panel"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/window"
)

// frameTimeout bounds how long the loop waits for input before repainting
// pane output.
const frameTimeout = 1.0 / 60

func runGUI(ctx context.Context, env *cli.Env) error {
	win, err := window.New(window.DefaultConfig())
	if err != nil {
		return err
	}
	defer win.Destroy()

	renderer, err := glrender.New(fonts.Resolve(env.Config.Font), env.Config.FontSize, env.Logger)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	var clip clipboard.Clipboard = window.Clipboard{}
	if sys := clipboard.NewSystem(env.Logger); sys.Available() {
		clip = sys
	}

	p := panel.New(env.PanelOptions(renderer.Metrics(), clip))
	defer p.Close()
	resize := func(width, height int) {
		p.Resize(render.Rect{W: float32(width), H: float32(height)})
	}
	resize(win.GetFramebufferSize())
	if err := p.Show(); err != nil {
		return err
	}

	in := window.Attach(win)
	in.OnSize = resize
	in.OnMouse = func(ev panel.MouseEvent) { p.HandleMouse(ev) }
	in.OnKey = func(ev keybindings.Event) {
		if keybindings.Translate(ev, false).Action == keybindings.ActionToggleFullscreen {
			win.ToggleFullscreen()
			return
		}
		p.HandleKey(ev)
	}
	env.Logger.Info("window front-end started", "profile", env.Startup.Name)

	for !win.ShouldClose() && ctx.Err() == nil {
		p.Update()
		if p.QuitRequested() || p.IsEmpty() {
			break
		}
		width, height := win.GetFramebufferSize()
		renderer.Draw(width, height, env.Theme.Background, p.Paint())
		win.SwapBuffers()
		window.WaitEvents(frameTimeout)
	}
	return nil
}
