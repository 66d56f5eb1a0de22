// Package cli builds the ravenpanel command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"pkt.systems/pslog"

	"github.com/javanhut/RavenPanel/clipboard"
	"github.com/javanhut/RavenPanel/config"
	"github.com/javanhut/RavenPanel/panel"
	"github.com/javanhut/RavenPanel/render"
	"github.com/javanhut/RavenPanel/session"
	"github.com/javanhut/RavenPanel/tab"
)

// ErrNoFrontend is returned by run when no window front-end is linked in.
var ErrNoFrontend = errors.New("no window front-end available")

// Frontend runs the panel until the user quits.
type Frontend func(ctx context.Context, env *Env) error

// Flags are the command line overrides shared by every subcommand.
type Flags struct {
	ConfigPath string
	Theme      string
	FontSize   float32
	TUI        bool
	Profile    string
}

// Env is the resolved configuration a front-end starts from.
type Env struct {
	Config   *config.Config
	Theme    render.Theme
	Profiles []config.Profile
	Startup  config.Profile
	Logger   pslog.Logger
	// Sessions overrides how pane sessions start; nil starts a pty.
	Sessions panel.SessionFactory
}

// Prepare loads the configuration and applies flag overrides.
func Prepare(ctx context.Context, f Flags) (*Env, error) {
	logger := pslog.Ctx(ctx)

	var (
		cfg *config.Config
		err error
	)
	if f.ConfigPath != "" {
		cfg, err = config.LoadFile(f.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if f.Theme != "" {
		cfg.Theme = f.Theme
	}
	if f.FontSize > 0 {
		cfg.FontSize = min(max(f.FontSize, config.MinFontSize), config.MaxFontSize)
	}

	if !config.KnownTheme(cfg.Theme) {
		logger.Warn("unknown theme, using default", "theme", cfg.Theme)
	}
	theme, err := render.ThemeByName(cfg.Theme).Overrides(cfg.Colors.Map())
	if err != nil {
		logger.Warn("ignoring invalid color overrides", "err", err)
	}

	startup := cfg.StartupProfile()
	if f.Profile != "" {
		if startup, err = cfg.Profile(f.Profile); err != nil {
			return nil, err
		}
	}

	logger.Debug("configuration loaded", "theme", theme.Name, "font_size", cfg.FontSize, "profile", startup.Name)
	return &Env{
		Config:   cfg,
		Theme:    theme,
		Profiles: cfg.ResolvedProfiles(),
		Startup:  startup,
		Logger:   logger,
	}, nil
}

// NewSession starts a pty session for profile.
func (e *Env) NewSession(profile config.Profile, cols, lines int) (tab.Session, error) {
	return session.Start(profile, session.Options{
		Cols:       cols,
		Lines:      lines,
		Scrollback: e.Config.Scrollback,
		Logger:     e.Logger,
	})
}

func (e *Env) sessionFactory() panel.SessionFactory {
	if e.Sessions != nil {
		return e.Sessions
	}
	return e.NewSession
}

// PanelOptions returns panel options for the given cell metrics and
// clipboard.
func (e *Env) PanelOptions(m render.Metrics, clip clipboard.Clipboard) panel.Options {
	return panel.Options{
		Theme:             e.Theme,
		Metrics:           m,
		Clipboard:         clip,
		NewSession:        e.sessionFactory(),
		Profiles:          e.Profiles,
		DefaultProfile:    e.Startup,
		WordSeparators:    e.Config.WordSeparators,
		MultiClickTimeout: time.Duration(e.Config.MultiClickMS) * time.Millisecond,
		Logger:            e.Logger,
	}
}

// NewRootCmd builds the ravenpanel command. gui runs the windowed
// front-end and may be nil when only the text front-end is available.
func NewRootCmd(gui Frontend) *cobra.Command {
	var flags Flags
	root := &cobra.Command{
		Use:           "ravenpanel",
		Short:         "Tabbed, split terminal panel",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(cmd.Context(), flags, gui)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.ConfigPath, "config", "c", "", "path to config file")
	pf.StringVar(&flags.Theme, "theme", "", "theme name")
	pf.Float32Var(&flags.FontSize, "font-size", 0, "font size in points")
	pf.StringVarP(&flags.Profile, "profile", "p", "", "profile for the first tab")
	root.Flags().BoolVar(&flags.TUI, "tui", false, "run inside the current terminal")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Open the panel in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return launch(cmd.Context(), flags, gui)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "tui",
		Short: "Run the panel inside the current terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.TUI = true
			return launch(cmd.Context(), flags, gui)
		},
	})
	root.AddCommand(newProfilesCmd(&flags))
	root.AddCommand(newThemesCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func launch(ctx context.Context, f Flags, gui Frontend) error {
	env, err := Prepare(ctx, f)
	if err != nil {
		return err
	}
	if f.TUI {
		return RunTUI(ctx, env, nil)
	}
	if gui == nil {
		return ErrNoFrontend
	}
	if err := gui(ctx, env); err != nil {
		return fmt.Errorf("window front-end: %w", err)
	}
	return nil
}
