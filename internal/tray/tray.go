// Package tray owns the system-tray icon and translates its menu clicks into
// Messages on a Mailbox read by the main loop.
package tray

import (
	"log/slog"
	"sync"

	"fyne.io/systray"
)

// Tooltip is shown when hovering the tray icon.
const Tooltip = "Clipboard Manager"

// Bridge is the tray icon with its "Show" and "Quit" entries.
type Bridge struct {
	mb   *Mailbox
	icon []byte

	once sync.Once
	done chan struct{}
	stop func()
}

// New creates a bridge that posts to mb. icon is PNG (or ICO on Windows)
// bytes; see LoadIcon.
func New(mb *Mailbox, icon []byte) *Bridge {
	return &Bridge{mb: mb, icon: icon, done: make(chan struct{})}
}

// Start brings the tray icon up without blocking. On macOS it must be called
// from the main goroutine before the window event loop starts; elsewhere the
// tray runs its own message loop on a dedicated OS thread.
func (b *Bridge) Start() {
	b.stop = start(b.onReady, b.onExit)
}

// Stop removes the tray icon. Safe to call more than once.
func (b *Bridge) Stop() {
	b.once.Do(func() {
		close(b.done)
		if b.stop != nil {
			b.stop()
		}
	})
}

func (b *Bridge) onReady() {
	if len(b.icon) > 0 {
		systray.SetIcon(b.icon)
	}
	systray.SetTooltip(Tooltip)

	showItem := systray.AddMenuItem("Show", "Show the clipboard history")
	systray.AddSeparator()
	quitItem := systray.AddMenuItem("Quit", "Quit the clipboard manager")

	slog.Debug("tray ready")
	go b.forward(showItem.ClickedCh, quitItem.ClickedCh)
}

func (b *Bridge) onExit() {
	slog.Debug("tray exited")
}

// forward relays clicks until Stop. Each click is one Message; rapid
// repeats queue independently.
func (b *Bridge) forward(show, quit <-chan struct{}) {
	for {
		select {
		case <-b.done:
			return
		case <-show:
			b.mb.Send(Show)
		case <-quit:
			b.mb.Send(Quit)
		}
	}
}
