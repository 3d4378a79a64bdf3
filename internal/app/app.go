// Package app holds the application context: the shared stores and the
// external collaborators, built once at startup and handed to the monitor,
// the UI and the control service.
package app

import (
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/clipstash/internal/autostart"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/paths"
	"go.klb.dev/clipstash/internal/store"
	"go.klb.dev/clipstash/internal/tray"
)

// Name and Version identify the build in the About dialog and the CLI.
const Name = "Clipboard Manager"

// Version is overridden at link time.
var Version = "dev"

// Options configure New.
type Options struct {
	Dirs      paths.Dirs
	Clipboard clip.Backend
	Autostart autostart.Launcher
	Mailbox   *tray.Mailbox
}

// Context is the application state shared across goroutines. The stores
// carry their own locks; the other fields are safe for concurrent use.
type Context struct {
	History   *store.Store[store.History]
	Prefs     *store.Store[store.Preferences]
	Clipboard clip.Backend
	Autostart autostart.Launcher
	Mailbox   *tray.Mailbox
}

// New creates the directories and loads both stores. A directory that cannot
// be created is fatal. Unreadable or corrupt files are logged and replaced by
// defaults.
func New(opts Options) (*Context, error) {
	if err := opts.Dirs.Ensure(); err != nil {
		return nil, err
	}

	h, err := store.LoadHistory(opts.Dirs.HistoryFile())
	if err != nil {
		slog.Warn("history not loaded, starting empty", "path", opts.Dirs.HistoryFile(), "err", err)
	}
	p, err := store.LoadPreferences(opts.Dirs.PreferencesFile())
	if err != nil {
		slog.Warn("preferences not loaded",
			"path", opts.Dirs.PreferencesFile(),
			"err", err,
			"trim_clips", p.TrimClips,
			"save_history", p.SaveHistory,
		)
	}
	slog.Debug("stores loaded", "entries", h.Len(), "trim_clips", p.TrimClips, "save_history", p.SaveHistory)

	c := &Context{
		History:   store.New(h),
		Prefs:     store.New(p),
		Clipboard: opts.Clipboard,
		Autostart: opts.Autostart,
		Mailbox:   opts.Mailbox,
	}
	if c.Clipboard == nil {
		c.Clipboard = clip.NewHeadless()
	}
	if c.Mailbox == nil {
		c.Mailbox = tray.NewMailbox()
	}
	return c, nil
}

// Snapshot returns a copy of the history entries.
func (c *Context) Snapshot() []string {
	var items []string
	_ = c.History.Do(func(h *store.History) error {
		items = h.Snapshot()
		return nil
	})
	return items
}

// Preferences returns a copy of the preferences record.
func (c *Context) Preferences() store.Preferences {
	return c.Prefs.Get()
}

// ErrEntryChanged is returned by CopyEntry and RemoveEntry when the entry at
// the index no longer holds the expected text.
var ErrEntryChanged = errors.New("entry changed")

// Copy writes entry i to the OS clipboard. The monitor will capture it again
// only if it differs from the newest entry.
func (c *Context) Copy(i int) error { return c.copy(i, nil) }

// CopyEntry is Copy for a caller that displayed text at index i; it fails
// with ErrEntryChanged if the list moved underneath it.
func (c *Context) CopyEntry(i int, text string) error { return c.copy(i, &text) }

func (c *Context) copy(i int, want *string) error {
	var text string
	err := c.History.Do(func(h *store.History) error {
		var err error
		text, err = entryAt(h, i, want)
		return err
	})
	if err != nil {
		return err
	}
	if err := c.Clipboard.WriteText(text); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	slog.Debug("entry copied", "index", i)
	return nil
}

// Remove deletes entry i and persists if history saving is on.
func (c *Context) Remove(i int) error { return c.remove(i, nil) }

// RemoveEntry is Remove guarded like CopyEntry.
func (c *Context) RemoveEntry(i int, text string) error { return c.remove(i, &text) }

// remove reads the save flag under the history lock, so a concurrent
// SetSaveHistory(false) cannot slip between the check and the write.
func (c *Context) remove(i int, want *string) error {
	return c.History.Do(func(h *store.History) error {
		if _, err := entryAt(h, i, want); err != nil {
			return err
		}
		if err := h.Remove(i); err != nil {
			return err
		}
		return c.Prefs.Do(func(p *store.Preferences) error {
			if p.SaveHistory {
				return h.Save()
			}
			return nil
		})
	})
}

func entryAt(h *store.History, i int, want *string) (string, error) {
	text, err := h.At(i)
	if err != nil {
		return "", err
	}
	if want != nil && text != *want {
		return "", fmt.Errorf("entry %d: %w", i, ErrEntryChanged)
	}
	return text, nil
}

// ClearHistory empties the history and deletes its file.
func (c *Context) ClearHistory() error {
	return c.History.Do(func(h *store.History) error {
		h.Clear()
		return h.DeleteFile()
	})
}

// SetTrimClips sets the display-trimming flag, writing through.
func (c *Context) SetTrimClips(v bool) error {
	return c.Prefs.Do(func(p *store.Preferences) error {
		return p.SetTrimClips(v)
	})
}

// ToggleTrimClips flips the display-trimming flag.
func (c *Context) ToggleTrimClips() error {
	return c.Prefs.Do(func(p *store.Preferences) error {
		return p.SetTrimClips(!p.TrimClips)
	})
}

// SetSaveHistory sets the persistence flag, writing through. Turning it off
// deletes the history file; the in-memory list is kept.
func (c *Context) SetSaveHistory(v bool) error {
	return c.setSaveHistory(func(bool) bool { return v })
}

// ToggleSaveHistory flips the persistence flag.
func (c *Context) ToggleSaveHistory() error {
	return c.setSaveHistory(func(cur bool) bool { return !cur })
}

func (c *Context) setSaveHistory(next func(cur bool) bool) error {
	return c.History.Do(func(h *store.History) error {
		return c.Prefs.Do(func(p *store.Preferences) error {
			v := next(p.SaveHistory)
			var delErr error
			if p.SaveHistory && !v {
				delErr = h.DeleteFile()
			}
			return errors.Join(delErr, p.SetSaveHistory(v))
		})
	})
}

// AutostartEnabled reports whether launch-at-login is registered. Errors are
// logged and read as disabled.
func (c *Context) AutostartEnabled() bool {
	if c.Autostart == nil {
		return false
	}
	on, err := c.Autostart.IsEnabled()
	if err != nil {
		slog.Warn("autostart state unknown", "err", err)
		return false
	}
	return on
}

// SetAutostart registers or removes launch-at-login.
func (c *Context) SetAutostart(v bool) error {
	if c.Autostart == nil {
		return autostart.ErrUnsupported
	}
	if v {
		return c.Autostart.Enable()
	}
	return c.Autostart.Disable()
}

// ToggleAutostart flips launch-at-login.
func (c *Context) ToggleAutostart() error {
	return c.SetAutostart(!c.AutostartEnabled())
}

// Show asks the main loop to restore the window.
func (c *Context) Show() { c.Mailbox.Send(tray.Show) }

// Quit asks the main loop to exit.
func (c *Context) Quit() { c.Mailbox.Send(tray.Quit) }

// ExportJSON encodes the history in its on-disk format.
func (c *Context) ExportJSON() ([]byte, error) {
	var data []byte
	err := c.History.Do(func(h *store.History) error {
		var err error
		data, err = h.Marshal()
		return err
	})
	return data, err
}
