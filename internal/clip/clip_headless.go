package clip

import "sync"

// Headless is an in-memory clipboard for environments without a display
// server (containers, CI). Text written to it can be read back, which keeps
// copy-from-history usable and makes it a convenient test double.
type Headless struct {
	mu   sync.Mutex
	text string
	set  bool
}

// NewHeadless returns an empty in-memory clipboard.
func NewHeadless() *Headless { return &Headless{} }

func (h *Headless) Name() string { return "headless (in-memory)" }

func (h *Headless) ReadText() (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.set {
		return "", ErrNoText
	}
	return h.text, nil
}

func (h *Headless) WriteText(text string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.text, h.set = text, true
	return nil
}

func (h *Headless) Close() {}
