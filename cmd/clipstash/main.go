// clipstash: clipboard history manager with a tray icon.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.klb.dev/clipstash/internal/app"
)

// envKeys maps flag names to env var suffixes: poll-interval → POLL_INTERVAL.
var envKeys = strings.NewReplacer("-", "_")

func main() {
	root := newRunCmd()
	root.Use = "clipstash"
	root.Short = "Clipboard history manager"
	root.Long = `clipstash records every text you copy, keeps the list across restarts and
lets you copy any entry back from a small window or the tray icon.

Running "clipstash" with no arguments starts the manager. If one is already
running, its window is shown instead. The other commands talk to the running
instance over its local socket.

Config file search order (first found wins):
  /etc/clipstash/clipstash.toml
  $HOME/.config/clipstash/clipstash.toml
  path supplied via --config

All flags can be set via CLIPSTASH_<FLAG> env vars or config-file keys.`
	root.SilenceUsage = true

	root.AddCommand(
		newControlCmds()...,
	)
	run := newRunCmd()
	run.Use = "run"
	run.Short = "Start the clipboard manager (the default command)"

	root.AddCommand(
		run,
		newAutostartCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("clipstash %s\n", app.Version)
		},
	}
}
