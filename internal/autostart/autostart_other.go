//go:build !linux && !darwin && !windows

package autostart

// New returns a launcher that reports disabled and refuses changes.
func New(App) Launcher { return unsupported{} }
