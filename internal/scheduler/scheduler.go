// Package scheduler is the main-thread render loop. It pulls events from a
// windowing Backend, drains the tray mailbox once per event, tracks the
// window state and pads every drawn frame out to a budget chosen from that
// state.
//
// The loop mirrors a control-flow driven windowing library: each event is
// handled with the flow reset to Wait, and the handler may ask for Poll (an
// immediate next cycle) or end the loop.
package scheduler

import (
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipstash/internal/tray"
)

// EventKind classifies a windowing event.
type EventKind int

const (
	// NewFrame starts a cycle; the loop updates its delta time.
	NewFrame EventKind = iota + 1
	// AboutToDraw means the event queue is drained and a frame may be prepared.
	AboutToDraw
	// Redraw asks the loop to draw now.
	Redraw
	// RedrawCleared ends a cycle.
	RedrawCleared
	WindowMoved
	CursorEntered
	CursorLeft
	CloseRequested
	// Resized carries the new size in Width and Height.
	Resized
	// Input is any other event; it is only forwarded.
	Input
)

var kindNames = map[EventKind]string{
	NewFrame:       "new-frame",
	AboutToDraw:    "about-to-draw",
	Redraw:         "redraw",
	RedrawCleared:  "redraw-cleared",
	WindowMoved:    "moved",
	CursorEntered:  "cursor-entered",
	CursorLeft:     "cursor-left",
	CloseRequested: "close-requested",
	Resized:        "resized",
	Input:          "input",
}

func (k EventKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Event is one windowing event.
type Event struct {
	Kind          EventKind
	Width, Height int
	// Payload is the backend's native event, for Forward.
	Payload any
}

// Flow tells the backend how to wait for the next event.
type Flow int

const (
	// Wait blocks until an event arrives.
	Wait Flow = iota
	// Poll starts another cycle immediately.
	Poll
)

func (f Flow) String() string {
	if f == Poll {
		return "poll"
	}
	return "wait"
}

// State is the scheduler's own state.
type State int

const (
	// Idle waits for events between frames.
	Idle State = iota
	// PendingExtraFrame means the last draw asked for a refresh; one more
	// cycle runs immediately after the current one clears.
	PendingExtraFrame
	// Exiting is terminal.
	Exiting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingExtraFrame:
		return "pending-extra-frame"
	case Exiting:
		return "exiting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Backend is the windowing, input and rendering layer driven by the loop.
// S is the surface handed to the draw callback.
type Backend[S any] interface {
	// Next returns the next event. With Poll it must not block waiting for
	// external input.
	Next(flow Flow) (Event, error)
	SetVisible(visible bool)
	// PrepareFrame syncs input and DPI state ahead of a draw.
	PrepareFrame() error
	// RequestRedraw queues a Redraw followed by RedrawCleared.
	RequestRedraw()
	// Forward passes an event to the input layer.
	Forward(ev Event)
	// Surface returns the drawing surface for the current frame, if any.
	Surface() (S, bool)
	// Present submits what the draw callback produced.
	Present()
}

// Inbox is the receive side of the tray mailbox.
type Inbox interface {
	TryRecv() (tray.Message, bool)
}

// Clock abstracts wall time so tests can simulate it.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock is the real clock.
var SystemClock Clock = systemClock{}

// Config holds the loop timings.
type Config struct {
	Budgets     Budgets
	DragTimeout time.Duration
	// HiddenSleep is slept once per event while minimized.
	HiddenSleep time.Duration
}

// DefaultConfig returns the stock timings.
func DefaultConfig() Config {
	return Config{
		Budgets:     DefaultBudgets(),
		DragTimeout: 3 * time.Second,
		HiddenSleep: 200 * time.Millisecond,
	}
}

// Control is handed to the draw callback.
type Control struct {
	delta   time.Duration
	refresh bool
	exit    bool
}

// Refresh asks for one more frame right after this one.
func (c *Control) Refresh() { c.refresh = true }

// Refreshing reports whether Refresh was called this frame.
func (c *Control) Refreshing() bool { return c.refresh }

// Exit ends the loop after this frame.
func (c *Control) Exit() { c.exit = true }

// Delta is the time since the previous frame started.
func (c *Control) Delta() time.Duration { return c.delta }

// DrawFunc draws one frame onto the surface.
type DrawFunc[S any] func(surface S, ctl *Control)

// Scheduler runs the loop. It is not safe for concurrent use; only the main
// goroutine touches it.
type Scheduler[S any] struct {
	backend Backend[S]
	inbox   Inbox
	clock   Clock
	cfg     Config

	window    WindowState
	state     State
	lastFrame time.Time
	delta     time.Duration
}

// New creates a scheduler. A nil clock means SystemClock.
func New[S any](backend Backend[S], inbox Inbox, clock Clock, cfg Config) *Scheduler[S] {
	if clock == nil {
		clock = SystemClock
	}
	d := DefaultConfig()
	if cfg.Budgets.Drag <= 0 {
		cfg.Budgets.Drag = d.Budgets.Drag
	}
	if cfg.Budgets.Active <= 0 {
		cfg.Budgets.Active = d.Budgets.Active
	}
	if cfg.Budgets.Minimized <= 0 {
		cfg.Budgets.Minimized = d.Budgets.Minimized
	}
	if cfg.DragTimeout <= 0 {
		cfg.DragTimeout = d.DragTimeout
	}
	if cfg.HiddenSleep <= 0 {
		cfg.HiddenSleep = d.HiddenSleep
	}
	return &Scheduler[S]{
		backend:   backend,
		inbox:     inbox,
		clock:     clock,
		cfg:       cfg,
		lastFrame: clock.Now(),
	}
}

// State reports the current scheduler state.
func (s *Scheduler[S]) State() State { return s.state }

// Window reports the current window state.
func (s *Scheduler[S]) Window() WindowState { return s.window }

// Run drives the loop until Exiting. It returns nil on a graceful exit or
// the backend's error.
func (s *Scheduler[S]) Run(draw DrawFunc[S]) error {
	flow := Wait
	for {
		ev, err := s.backend.Next(flow)
		if err != nil {
			return fmt.Errorf("next event: %w", err)
		}
		flow = s.Step(ev, draw)
		if s.state == Exiting {
			slog.Debug("render loop exiting")
			return nil
		}
	}
}

// Step handles one event and returns how the backend should wait for the
// next one.
func (s *Scheduler[S]) Step(ev Event, draw DrawFunc[S]) Flow {
	flow := Wait

	s.drainInbox()
	if s.window.Minimized {
		s.clock.Sleep(s.cfg.HiddenSleep)
	}

	switch ev.Kind {
	case NewFrame:
		now := s.clock.Now()
		s.delta = now.Sub(s.lastFrame)
		s.lastFrame = now

	case AboutToDraw:
		if err := s.backend.PrepareFrame(); err != nil {
			slog.Warn("prepare frame failed", "err", err)
		}
		s.backend.RequestRedraw()

	case RedrawCleared:
		if s.state == PendingExtraFrame {
			s.state = Idle
			flow = Poll
		}

	case Redraw:
		s.redraw(draw)

	default:
		s.backend.Forward(ev)
		s.observe(ev)
	}
	return flow
}

func (s *Scheduler[S]) drainInbox() {
	for {
		msg, ok := s.inbox.TryRecv()
		if !ok {
			return
		}
		slog.Debug("tray message", "msg", msg)
		switch msg {
		case tray.Show:
			s.window.Restore()
			s.backend.SetVisible(true)
		case tray.Quit:
			s.window.Restore()
			s.state = Exiting
		}
	}
}

func (s *Scheduler[S]) redraw(draw DrawFunc[S]) {
	start := s.clock.Now()

	ctl := &Control{delta: s.delta}
	if surface, ok := s.backend.Surface(); ok && draw != nil {
		draw(surface, ctl)
	}
	s.backend.Present()

	switch {
	case ctl.exit:
		s.state = Exiting
	case ctl.refresh && s.state != Exiting:
		s.state = PendingExtraFrame
	}

	now := s.clock.Now()
	s.window.Expire(now, s.cfg.DragTimeout)
	budget := s.cfg.Budgets.Select(s.window)
	if elapsed := now.Sub(start); elapsed < budget {
		s.clock.Sleep(budget - elapsed)
	}
}

func (s *Scheduler[S]) observe(ev Event) {
	switch ev.Kind {
	case WindowMoved:
		s.window.Moved(s.clock.Now())
	case CursorEntered:
		s.window.CursorEntered()
	case CursorLeft:
		s.window.CursorLeft()
	case CloseRequested:
		s.state = Exiting
	case Resized:
		if s.window.Resized(ev.Width, ev.Height) {
			s.backend.SetVisible(false)
		}
	}
}
