//go:build darwin || windows || linux

package clip

import (
	"log/slog"

	"golang.design/x/clipboard"
)

type desktopBackend struct{}

// New returns the system clipboard backend, or an in-memory headless backend
// if the display environment is unavailable (e.g. a Linux session without X11).
// clipboard.Init is called here rather than in init() so that control
// sub-commands that never touch the clipboard don't log spurious warnings.
func New() Backend {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return NewHeadless()
	}
	return desktopBackend{}
}

func (desktopBackend) Name() string { return "system clipboard" }

func (desktopBackend) ReadText() (string, error) {
	b := clipboard.Read(clipboard.FmtText)
	if b == nil {
		return "", ErrNoText
	}
	return string(b), nil
}

func (desktopBackend) WriteText(text string) error {
	// Write returns a channel that fires when another program takes
	// ownership; nothing here needs it.
	_ = clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (desktopBackend) Close() {}
