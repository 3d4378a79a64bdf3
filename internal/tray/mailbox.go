package tray

import "sync"

// Message is a control request from the tray (or the control socket) to the
// main loop.
type Message int

const (
	// Show restores and raises the window.
	Show Message = iota + 1
	// Quit ends the main loop.
	Quit
)

func (m Message) String() string {
	switch m {
	case Show:
		return "show"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Mailbox is an unbounded FIFO of Messages with a non-blocking receive.
// Send never blocks and never drops. Multiple producers are fine; there is a
// single consumer, the main loop.
type Mailbox struct {
	mu    sync.Mutex
	queue []Message
	wake  func()
}

// NewMailbox returns an empty mailbox.
func NewMailbox() *Mailbox { return &Mailbox{} }

// SetWaker registers fn to be called after every Send, outside the lock.
// The window backend uses it to unblock an idle event wait.
func (mb *Mailbox) SetWaker(fn func()) {
	mb.mu.Lock()
	mb.wake = fn
	mb.mu.Unlock()
}

// Send enqueues m.
func (mb *Mailbox) Send(m Message) {
	mb.mu.Lock()
	mb.queue = append(mb.queue, m)
	wake := mb.wake
	mb.mu.Unlock()
	if wake != nil {
		wake()
	}
}

// TryRecv dequeues the oldest message, if any.
func (mb *Mailbox) TryRecv() (Message, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if len(mb.queue) == 0 {
		return 0, false
	}
	m := mb.queue[0]
	mb.queue[0] = 0
	mb.queue = mb.queue[1:]
	if len(mb.queue) == 0 {
		mb.queue = nil
	}
	return m, true
}

// Len is the number of queued messages.
func (mb *Mailbox) Len() int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	return len(mb.queue)
}
