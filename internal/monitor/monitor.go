// Package monitor samples the OS clipboard on a fixed interval and appends
// new text to the shared history.
package monitor

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/logging"
	"go.klb.dev/clipstash/internal/store"
)

const previewRunes = 120

// Config tunes the poll loop.
type Config struct {
	// Interval is the sleep between successful reads.
	Interval time.Duration
	// Backoff is the sleep after a failed read.
	Backoff time.Duration
	// FatalSaveErrors makes Run return the first persistence failure instead
	// of logging it and carrying on.
	FatalSaveErrors bool
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{Interval: 100 * time.Millisecond, Backoff: 200 * time.Millisecond}
}

// Monitor owns the poll goroutine. The last-seen value lives here and is
// never re-read from the store.
type Monitor struct {
	backend clip.Backend
	history *store.Store[store.History]
	prefs   *store.Store[store.Preferences]
	cfg     Config

	last string

	// sleep returns false when ctx is done. Replaced in tests.
	sleep func(ctx context.Context, d time.Duration) bool

	// OnCapture, if set, runs after every new entry, outside the locks.
	OnCapture func(entry string)
}

// New creates a monitor but does not start it. The last-seen value is
// seeded from the newest history entry so a restart does not capture the
// same clipboard contents twice.
func New(backend clip.Backend, history *store.Store[store.History], prefs *store.Store[store.Preferences], cfg Config) *Monitor {
	d := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = d.Interval
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = d.Backoff
	}
	m := &Monitor{
		backend: backend,
		history: history,
		prefs:   prefs,
		cfg:     cfg,
		sleep:   sleepCtx,
	}
	_ = history.Do(func(h *store.History) error {
		m.last, _ = h.Last()
		return nil
	})
	return m
}

// Run polls until ctx is cancelled. It returns nil on cancellation, or the
// first persistence error when Config.FatalSaveErrors is set.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("clipboard monitor started", "backend", m.backend.Name(), "interval", m.cfg.Interval)
	defer slog.Debug("clipboard monitor stopped")

	wait := m.cfg.Interval
	for {
		if !m.sleep(ctx, wait) {
			return nil
		}
		ok, err := m.Poll()
		if err != nil && m.cfg.FatalSaveErrors {
			return err
		}
		if ok {
			wait = m.cfg.Interval
		} else {
			wait = m.cfg.Backoff
		}
	}
}

// Poll performs one read-debounce-append step. ok is false when the
// clipboard read failed and the caller should back off. err is a
// persistence failure; the entry has already been appended in memory.
func (m *Monitor) Poll() (ok bool, err error) {
	raw, rerr := m.backend.ReadText()
	if rerr != nil {
		if !errors.Is(rerr, clip.ErrNoText) {
			slog.Debug("clipboard read failed", "err", rerr)
		}
		return false, nil
	}

	text := strings.TrimSpace(raw)
	if text == "" || text == m.last {
		return true, nil
	}

	err = m.history.Do(func(h *store.History) error {
		h.Append(text)
		save := false
		_ = m.prefs.Do(func(p *store.Preferences) error {
			save = p.SaveHistory
			return nil
		})
		if !save {
			return nil
		}
		return h.Save()
	})
	m.last = text

	logCapture(text)
	if err != nil {
		slog.Error("history not persisted", "err", err)
	}
	if m.OnCapture != nil {
		m.OnCapture(text)
	}
	return true, err
}

// logCapture logs a new entry at INFO (length only) and DEBUG (preview).
func logCapture(text string) {
	slog.Info("clip captured", "runes", len([]rune(text)))
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	slog.Debug("clip preview", "text", logging.Preview(text, previewRunes))
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
