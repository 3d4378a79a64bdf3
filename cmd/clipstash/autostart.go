package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/autostart"
)

func newAutostartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autostart",
		Short: "Manage launch at login",
		Long: `Registers or removes clipstash as a login item: an XDG autostart entry on
Linux, a LaunchAgent on macOS, a Run registry value on Windows.`,
	}

	run := func(use, short string, fn func(autostart.Launcher) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				l := launcher()
				if l == nil {
					return autostart.ErrUnsupported
				}
				return fn(l)
			},
		}
	}

	cmd.AddCommand(
		run("enable", "Start clipstash at login", autostart.Launcher.Enable),
		run("disable", "Stop starting clipstash at login", autostart.Launcher.Disable),
		run("status", "Report whether clipstash starts at login", func(l autostart.Launcher) error {
			on, err := l.IsEnabled()
			if err != nil {
				return err
			}
			if on {
				fmt.Println("enabled")
			} else {
				fmt.Println("disabled")
			}
			return nil
		}),
	)
	return cmd
}
