package window

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.klb.dev/clipstash/internal/scheduler"
	"go.klb.dev/clipstash/internal/tray"
)

func kinds(t *testing.T, h *Headless, flow scheduler.Flow, n int) []scheduler.EventKind {
	t.Helper()
	var out []scheduler.EventKind
	for i := 0; i < n; i++ {
		ev, err := h.Next(flow)
		if err != nil {
			t.Fatal(err)
		}
		out = append(out, ev.Kind)
		if ev.Kind == scheduler.AboutToDraw {
			h.RequestRedraw()
		}
	}
	return out
}

func TestHeadlessPollCycle(t *testing.T) {
	h := NewHeadless(time.Hour)
	got := kinds(t, h, scheduler.Poll, 4)
	want := []scheduler.EventKind{scheduler.NewFrame, scheduler.AboutToDraw, scheduler.Redraw, scheduler.RedrawCleared}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("cycle (-want +got):\n%s", diff)
	}
}

func TestHeadlessWakeInterruptsWait(t *testing.T) {
	h := NewHeadless(time.Hour)
	h.Wake()
	h.Wake() // coalesced
	ev, err := h.Next(scheduler.Wait)
	if err != nil || ev.Kind != scheduler.Input {
		t.Fatalf("Next = %v, %v; want input", ev.Kind, err)
	}
}

func TestHeadlessTick(t *testing.T) {
	h := NewHeadless(time.Millisecond)
	ev, err := h.Next(scheduler.Wait)
	if err != nil || ev.Kind != scheduler.NewFrame {
		t.Fatalf("Next = %v, %v; want new-frame", ev.Kind, err)
	}
}

func TestHeadlessSchedulerQuit(t *testing.T) {
	h := NewHeadless(time.Hour)
	mb := tray.NewMailbox()
	mb.SetWaker(h.Wake)
	s := scheduler.New[struct{}](h, mb, nil, scheduler.DefaultConfig())

	done := make(chan error, 1)
	go func() { done <- s.Run(nil) }()
	mb.Send(tray.Show)
	mb.Send(tray.Quit)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not exit")
	}
	if !h.Visible() {
		t.Error("Show did not make the window visible")
	}
}
