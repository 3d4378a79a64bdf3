//go:build darwin

package autostart

import (
	"os"
	"path/filepath"
)

// New returns the LaunchAgent launcher. The agent is picked up at next login;
// launchctl is not invoked.
func New(app App) Launcher {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return NewLaunchAgent(app, filepath.Join(home, "Library", "LaunchAgents"))
}
