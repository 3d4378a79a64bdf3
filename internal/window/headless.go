package window

import (
	"log/slog"
	"time"

	"go.klb.dev/clipstash/internal/scheduler"
)

// Headless drives the scheduler without a display. Each tick is one full
// frame cycle with nothing drawn; Wake delivers an empty event so tray and
// control messages are handled promptly.
type Headless struct {
	tick    time.Duration
	wake    chan struct{}
	pending []scheduler.Event
	visible bool
}

var _ scheduler.Backend[struct{}] = (*Headless)(nil)

// NewHeadless returns a backend that runs a frame cycle every tick.
func NewHeadless(tick time.Duration) *Headless {
	if tick <= 0 {
		tick = time.Second
	}
	return &Headless{tick: tick, wake: make(chan struct{}, 1), visible: true}
}

// Wake unblocks a pending Next. Safe from any goroutine.
func (h *Headless) Wake() {
	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Headless) Next(flow scheduler.Flow) (scheduler.Event, error) {
	if len(h.pending) > 0 {
		ev := h.pending[0]
		h.pending = h.pending[1:]
		return ev, nil
	}
	if flow == scheduler.Wait {
		t := time.NewTimer(h.tick)
		defer t.Stop()
		select {
		case <-h.wake:
			return scheduler.Event{Kind: scheduler.Input}, nil
		case <-t.C:
		}
	}
	h.pending = append(h.pending, scheduler.Event{Kind: scheduler.AboutToDraw})
	return scheduler.Event{Kind: scheduler.NewFrame}, nil
}

func (h *Headless) SetVisible(v bool) {
	if v != h.visible {
		slog.Debug("headless window visibility", "visible", v)
	}
	h.visible = v
}

// Visible reports the last requested visibility.
func (h *Headless) Visible() bool { return h.visible }

func (h *Headless) PrepareFrame() error { return nil }

func (h *Headless) RequestRedraw() {
	h.pending = append(h.pending,
		scheduler.Event{Kind: scheduler.Redraw},
		scheduler.Event{Kind: scheduler.RedrawCleared},
	)
}

func (h *Headless) Forward(scheduler.Event) {}

func (h *Headless) Surface() (struct{}, bool) { return struct{}{}, true }

func (h *Headless) Present() {}
