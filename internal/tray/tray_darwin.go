//go:build darwin

package tray

import "fyne.io/systray"

// start hooks the tray into the host's Cocoa run loop, which the window
// package drives from the main thread.
func start(onReady, onExit func()) (stop func()) {
	begin, end := systray.RunWithExternalLoop(onReady, onExit)
	begin()
	return end
}
