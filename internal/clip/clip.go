// Package clip provides a unified interface to the system clipboard across
// platforms. Build constraints select the appropriate implementation:
//
//	clip_desktop.go   Linux, macOS and Windows via golang.design/x/clipboard
//	clip_other.go     any other platform, always headless
//	clip_headless.go  in-memory clipboard used when no display is available
package clip

import "errors"

// ErrNoText is returned by ReadText when the clipboard holds no text.
var ErrNoText = errors.New("clipboard holds no text")

// Backend is the interface that all clipboard implementations satisfy.
// Only plain text is supported.
type Backend interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// ReadText returns the current clipboard text. It returns ErrNoText
	// when the clipboard is empty or holds a non-text format.
	ReadText() (string, error)

	// WriteText replaces the clipboard contents with text.
	WriteText(text string) error

	// Close releases any resources held by the backend.
	Close()
}
