// Package autostart registers the application to launch at login.
//
//	Linux    XDG autostart desktop entry
//	macOS    per-user LaunchAgent plist
//	Windows  HKCU Run registry value
package autostart

import "errors"

// Launcher toggles launch-at-login for one application.
type Launcher interface {
	// IsEnabled reports whether an entry exists and points at this
	// application's executable.
	IsEnabled() (bool, error)
	Enable() error
	Disable() error
}

// App identifies what to launch.
type App struct {
	// Name keys the entry: file name or registry value name.
	Name string
	// Label is the reverse-DNS identifier used by launchd.
	Label string
	// DisplayName is shown by desktop session managers.
	DisplayName string
	// Exec is the absolute path of the executable.
	Exec string
	// Args are passed after Exec.
	Args []string
}

// ErrUnsupported is returned on platforms with no autostart mechanism.
var ErrUnsupported = errors.New("autostart not supported on this platform")

type unsupported struct{}

func (unsupported) IsEnabled() (bool, error) { return false, nil }
func (unsupported) Enable() error            { return ErrUnsupported }
func (unsupported) Disable() error           { return ErrUnsupported }
