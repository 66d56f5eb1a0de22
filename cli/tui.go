package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/javanhut/RavenPanel/clipboard"
	"github.com/javanhut/RavenPanel/panel"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/tuirender"
)

const tuiFrameInterval = 33 * time.Millisecond

// RunTUI runs the panel on a text screen until the user quits, the last
// pane closes or ctx ends. A nil screen opens the controlling terminal.
func RunTUI(ctx context.Context, env *Env, screen tcell.Screen) error {
	if screen == nil {
		s, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("open terminal screen: %w", err)
		}
		screen = s
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	var clip clipboard.Clipboard = &clipboard.Memory{}
	if sys := clipboard.NewSystem(env.Logger); sys.Available() {
		clip = sys
	}

	out := tuirender.New(screen)
	p := panel.New(env.PanelOptions(render.TextMetrics, clip))
	defer p.Close()
	p.Resize(out.Bounds())
	if err := p.Show(); err != nil {
		return err
	}
	env.Logger.Info("text front-end started", "profile", env.Startup.Name)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(tuiFrameInterval)
	defer ticker.Stop()

	var mouse tuirender.MouseTracker
	for {
		p.Update()
		if p.QuitRequested() || p.IsEmpty() {
			return nil
		}
		out.Draw(env.Theme.Background, p.Paint())

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				p.Resize(out.Bounds())
			case *tcell.EventKey:
				if kev, ok := tuirender.KeyEvent(ev); ok {
					p.HandleKey(kev)
				}
			case *tcell.EventMouse:
				for _, mev := range mouse.Events(ev) {
					p.HandleMouse(mev)
				}
			}
		}
	}
}
