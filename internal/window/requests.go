package window

import "sync"

// requests holds a visibility change asked for by the scheduler goroutine
// until the pump goroutine, the one calling Window.Event, applies it. Only
// the latest request is kept.
type requests struct {
	mu      sync.Mutex
	visible *bool
}

func (r *requests) setVisible(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible = &v
}

// take returns and clears the pending request.
func (r *requests) take() (visible, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.visible == nil {
		return false, false
	}
	visible = *r.visible
	r.visible = nil
	return visible, true
}
