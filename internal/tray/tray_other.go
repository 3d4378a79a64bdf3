//go:build !darwin

package tray

import (
	"runtime"

	"fyne.io/systray"
)

func start(onReady, onExit func()) (stop func()) {
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		systray.Run(onReady, onExit)
	}()
	return systray.Quit
}
