// Package window adapts a Gio window to the scheduler's pull-based event
// loop. Gio events are pumped on their own goroutine and translated into
// scheduler events; a pumped FrameEvent holds the pump until the scheduler
// presents it.
package window

import (
	"errors"
	"image"
	"log/slog"
	"os"

	"gioui.org/app"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/unit"

	"go.klb.dev/clipstash/internal/scheduler"
)

// Options configure the window.
type Options struct {
	Title         string
	Width, Height unit.Dp
	// OnRestore runs when the user restores the window from the task bar or
	// dock rather than through the tray.
	OnRestore func()
}

// Backend is a Gio window implementing scheduler.Backend[layout.Context].
type Backend struct {
	w    *app.Window
	opts Options

	events chan event.Event
	framed chan struct{}
	wake   chan struct{}

	pending []scheduler.Event
	frame   *app.FrameEvent
	ops     op.Ops
	gtx     layout.Context
	mode    app.WindowMode
	hover   bool

	reqs requests
}

var _ scheduler.Backend[layout.Context] = (*Backend)(nil)

// New opens the window and starts pumping its events.
func New(opts Options) *Backend {
	w := new(app.Window)
	w.Option(
		app.Title(opts.Title),
		app.Size(opts.Width, opts.Height),
	)
	b := &Backend{
		w:      w,
		opts:   opts,
		events: make(chan event.Event),
		framed: make(chan struct{}),
		wake:   make(chan struct{}, 1),
		mode:   app.Windowed,
	}
	go b.pump()
	return b
}

// pump owns every Window call except Invalidate and Frame.
func (b *Backend) pump() {
	for {
		b.apply()
		e := b.w.Event()
		b.events <- e
		switch e.(type) {
		case app.FrameEvent:
			<-b.framed
		case app.DestroyEvent:
			return
		}
	}
}

// Wake unblocks a pending Next. Safe from any goroutine.
func (b *Backend) Wake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

// Invalidate schedules a redraw. Safe from any goroutine.
func (b *Backend) Invalidate() {
	b.w.Invalidate()
}

func (b *Backend) Next(flow scheduler.Flow) (scheduler.Event, error) {
	if len(b.pending) > 0 {
		return b.pop(), nil
	}
	if flow == scheduler.Poll {
		b.w.Invalidate()
	}
	select {
	case e := <-b.events:
		return b.translate(e), nil
	case <-b.wake:
		return scheduler.Event{Kind: scheduler.Input}, nil
	}
}

func (b *Backend) pop() scheduler.Event {
	ev := b.pending[0]
	b.pending = b.pending[1:]
	return ev
}

func (b *Backend) translate(e event.Event) scheduler.Event {
	switch e := e.(type) {
	case app.FrameEvent:
		b.frame = &e
		b.pending = append(b.pending, scheduler.Event{Kind: scheduler.AboutToDraw})
		return scheduler.Event{Kind: scheduler.NewFrame, Payload: e}

	case app.ConfigEvent:
		prev := b.mode
		b.mode = e.Config.Mode
		switch {
		case b.mode == app.Minimized && prev != app.Minimized:
			return scheduler.Event{Kind: scheduler.Resized, Payload: e}
		case prev == app.Minimized && b.mode != app.Minimized:
			slog.Debug("window restored by the window manager")
			if b.opts.OnRestore != nil {
				b.opts.OnRestore()
			}
		}
		return scheduler.Event{Kind: scheduler.Resized, Width: e.Config.Size.X, Height: e.Config.Size.Y, Payload: e}

	case app.DestroyEvent:
		if e.Err != nil {
			slog.Error("window destroyed", "err", e.Err)
		}
		return scheduler.Event{Kind: scheduler.CloseRequested, Payload: e}

	default:
		return scheduler.Event{Kind: scheduler.Input, Payload: e}
	}
}

// SetVisible minimizes or restores the window. Gio cannot hide a window
// outright, so hiding means minimizing. The change is applied by the pump
// goroutine; Invalidate makes its pending Event return.
func (b *Backend) SetVisible(visible bool) {
	b.reqs.setVisible(visible)
	b.w.Invalidate()
}

func (b *Backend) apply() {
	visible, ok := b.reqs.take()
	switch {
	case !ok:
	case visible:
		b.w.Option(app.Windowed.Option())
		b.w.Perform(system.ActionRaise)
	default:
		b.w.Option(app.Minimized.Option())
	}
}

// PrepareFrame builds the layout context for the pending frame and collects
// the pointer enter/leave events seen since the previous one.
func (b *Backend) PrepareFrame() error {
	if b.frame == nil {
		return errors.New("no pending frame")
	}
	b.gtx = app.NewContext(&b.ops, *b.frame)
	for {
		ev, ok := b.gtx.Event(pointer.Filter{Target: b, Kinds: pointer.Enter | pointer.Leave})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch {
		case pe.Kind == pointer.Enter && !b.hover:
			b.hover = true
			b.pending = append(b.pending, scheduler.Event{Kind: scheduler.CursorEntered, Payload: pe})
		case pe.Kind == pointer.Leave && b.hover:
			b.hover = false
			b.pending = append(b.pending, scheduler.Event{Kind: scheduler.CursorLeft, Payload: pe})
		}
	}
	return nil
}

func (b *Backend) RequestRedraw() {
	if b.frame == nil {
		b.w.Invalidate()
		return
	}
	b.pending = append(b.pending,
		scheduler.Event{Kind: scheduler.Redraw},
		scheduler.Event{Kind: scheduler.RedrawCleared},
	)
}

// Forward is a no-op: Gio routes input through the frame's ops.
func (b *Backend) Forward(scheduler.Event) {}

func (b *Backend) Surface() (layout.Context, bool) {
	return b.gtx, b.frame != nil
}

// Present submits the frame and releases the event pump.
func (b *Backend) Present() {
	if b.frame == nil {
		return
	}
	b.trackHover(b.frame.Size)
	b.frame.Frame(b.gtx.Ops)
	b.frame = nil
	b.framed <- struct{}{}
}

// trackHover registers a window-sized area that observes the pointer
// without consuming it.
func (b *Backend) trackHover(size image.Point) {
	pass := pointer.PassOp{}.Push(b.gtx.Ops)
	area := clip.Rect{Max: size}.Push(b.gtx.Ops)
	event.Op(b.gtx.Ops, b)
	area.Pop()
	pass.Pop()
}

// Main runs fn on a new goroutine and the Gio event loop on the calling one,
// which must be the main goroutine. The process exits when fn returns.
func Main(fn func() error) {
	go func() {
		code := 0
		if err := fn(); err != nil {
			slog.Error("exiting", "err", err)
			code = 1
		}
		os.Exit(code)
	}()
	app.Main()
}
