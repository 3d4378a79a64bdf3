//go:build linux

package autostart

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// New returns the XDG autostart launcher.
func New(app App) Launcher {
	return NewDesktopEntry(app, filepath.Join(xdg.ConfigHome, "autostart"))
}
