package cli

import (
	"fmt"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/javanhut/RavenPanel/config"
)

const defaultModule = "github.com/javanhut/RavenPanel"

func newProfilesCmd(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List shell profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := Prepare(cmd.Context(), *flags)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range env.Profiles {
				mark := " "
				if p.Name == env.Startup.Name {
					mark = "*"
				}
				command := strings.TrimSpace(p.Command + " " + strings.Join(p.Args, " "))
				fmt.Fprintf(w, "%s %s\t%s\n", mark, p.Name, command)
			}
			return w.Flush()
		},
	}
}

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List color themes",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range config.ThemeOptions() {
				fmt.Fprintf(w, "%s\t%s\n", t.Name, t.Label)
			}
			return w.Flush()
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", module(), version())
			return err
		},
	}
}

func module() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if path := strings.TrimSpace(info.Main.Path); path != "" {
			return path
		}
	}
	return defaultModule
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := strings.TrimSpace(info.Main.Version); v != "" && v != "(devel)" {
			return v
		}
	}
	return "v0.0.0-unknown"
}
