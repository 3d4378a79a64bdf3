package scheduler

import "time"

// WindowState is the transient window bookkeeping that feeds the frame
// budget. It is owned by the main loop and never persisted; the zero value
// is the startup state.
type WindowState struct {
	Minimized     bool
	Dragging      bool
	MouseInWindow bool
	LastDrag      time.Time
}

// Moved records a window-move event.
func (w *WindowState) Moved(now time.Time) {
	w.Dragging = true
	w.LastDrag = now
}

func (w *WindowState) CursorEntered() { w.MouseInWindow = true }
func (w *WindowState) CursorLeft()    { w.MouseInWindow = false }

// Resized records a resize. A zero-area size means the window manager
// minimized the window; Resized reports true when the window should hide.
func (w *WindowState) Resized(width, height int) (hide bool) {
	if width == 0 && height == 0 {
		w.Minimized = true
		return true
	}
	return false
}

// Restore clears the minimized flag.
func (w *WindowState) Restore() { w.Minimized = false }

// Expire clears Dragging once timeout has passed since the last move.
func (w *WindowState) Expire(now time.Time, timeout time.Duration) {
	if w.Dragging && now.Sub(w.LastDrag) >= timeout {
		w.Dragging = false
	}
}

// Budgets are the per-frame wall-clock targets.
type Budgets struct {
	Drag      time.Duration
	Active    time.Duration
	Minimized time.Duration
}

// DefaultBudgets are 120 Hz while dragging, 60 Hz active, 10 Hz minimized.
func DefaultBudgets() Budgets {
	return Budgets{
		Drag:      time.Second / 120,
		Active:    time.Second / 60,
		Minimized: time.Second / 10,
	}
}

// Select picks the budget for w. Dragging wins over minimized.
func (b Budgets) Select(w WindowState) time.Duration {
	switch {
	case w.Dragging:
		return b.Drag
	case w.Minimized:
		return b.Minimized
	default:
		return b.Active
	}
}
