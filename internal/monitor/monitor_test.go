package monitor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.klb.dev/clipstash/internal/store"
)

// scriptBackend returns one scripted read per call.
type scriptBackend struct {
	reads []read
	n     int
}

type read struct {
	text string
	err  error
}

func (b *scriptBackend) Name() string { return "script" }
func (b *scriptBackend) ReadText() (string, error) {
	if b.n >= len(b.reads) {
		return "", errors.New("script exhausted")
	}
	r := b.reads[b.n]
	b.n++
	return r.text, r.err
}
func (b *scriptBackend) WriteText(string) error { return nil }
func (b *scriptBackend) Close()                 {}

func texts(ss ...string) []read {
	out := make([]read, len(ss))
	for i, s := range ss {
		out[i] = read{text: s}
	}
	return out
}

func newStores(t *testing.T, save bool, items ...string) (*store.Store[store.History], *store.Store[store.Preferences]) {
	t.Helper()
	dir := t.TempDir()
	h := store.NewHistory(filepath.Join(dir, "history.json"))
	for _, it := range items {
		h.Append(it)
	}
	p, err := store.LoadPreferences(filepath.Join(dir, "preferences.json"))
	if err != nil {
		t.Fatal(err)
	}
	p.SaveHistory = save
	return store.New(h), store.New(p)
}

func pollAll(t *testing.T, m *Monitor, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if _, err := m.Poll(); err != nil {
			t.Fatalf("Poll %d: %v", i, err)
		}
	}
}

func TestPollAppendsDistinctEntriesInOrder(t *testing.T) {
	hs, ps := newStores(t, false)
	in := []string{"alpha", "beta", "gamma", "delta"}
	m := New(&scriptBackend{reads: texts(in...)}, hs, ps, Config{})
	pollAll(t, m, len(in))

	got := hs.Get()
	if diff := cmp.Diff(in, got.Items); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestPollSingleEntryDebounce(t *testing.T) {
	hs, ps := newStores(t, false)
	reads := texts("a", "a", "  a\n", "b", "a", "", "   ")
	m := New(&scriptBackend{reads: reads}, hs, ps, Config{})
	pollAll(t, m, len(reads))

	got := hs.Get()
	if diff := cmp.Diff([]string{"a", "b", "a"}, got.Items); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestPollReadErrorRequestsBackoff(t *testing.T) {
	hs, ps := newStores(t, false)
	m := New(&scriptBackend{reads: []read{{err: errors.New("busy")}, {text: "x"}}}, hs, ps, Config{})
	ok, err := m.Poll()
	if ok || err != nil {
		t.Errorf("Poll after read error = %v, %v; want false, nil", ok, err)
	}
	ok, _ = m.Poll()
	if !ok {
		t.Error("Poll after good read returned ok=false")
	}
	if h := hs.Get(); h.Len() != 1 {
		t.Errorf("Len = %d", h.Len())
	}
}

func TestLastSeenSeededFromHistory(t *testing.T) {
	hs, ps := newStores(t, false, "old", "newest")
	m := New(&scriptBackend{reads: texts("newest", "fresh")}, hs, ps, Config{})
	pollAll(t, m, 2)

	got := hs.Get()
	if diff := cmp.Diff([]string{"old", "newest", "fresh"}, got.Items); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestPollPersistsWhenEnabled(t *testing.T) {
	hs, ps := newStores(t, true)
	m := New(&scriptBackend{reads: texts("one", "two")}, hs, ps, Config{})
	pollAll(t, m, 2)

	h := hs.Get()
	loaded, err := store.LoadHistory(h.Path())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"one", "two"}, loaded.Items); diff != "" {
		t.Errorf("persisted (-want +got):\n%s", diff)
	}
}

func TestPollSkipsPersistWhenDisabled(t *testing.T) {
	hs, ps := newStores(t, false)
	m := New(&scriptBackend{reads: texts("one")}, hs, ps, Config{})
	pollAll(t, m, 1)

	h := hs.Get()
	if _, err := os.Stat(h.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("history file written with save disabled: %v", err)
	}
}

func TestPersistFailureKeepsEntryInMemory(t *testing.T) {
	h := store.NewHistory(filepath.Join(t.TempDir(), "missing", "history.json"))
	hs := store.New(h)
	ps := store.New(store.Preferences{SaveHistory: true})

	var captured []string
	m := New(&scriptBackend{reads: texts("x")}, hs, ps, Config{})
	m.OnCapture = func(s string) { captured = append(captured, s) }

	ok, err := m.Poll()
	var pe *store.PersistError
	if !ok || !errors.As(err, &pe) {
		t.Fatalf("Poll = %v, %v; want true, *PersistError", ok, err)
	}
	if got := hs.Get(); got.Len() != 1 {
		t.Errorf("Len = %d, want entry kept in memory", got.Len())
	}
	if diff := cmp.Diff([]string{"x"}, captured); diff != "" {
		t.Errorf("OnCapture (-want +got):\n%s", diff)
	}
}

// fakeSleeper records requested sleeps and cancels after limit calls.
type fakeSleeper struct {
	slept  []time.Duration
	limit  int
	cancel context.CancelFunc
}

func (f *fakeSleeper) sleep(ctx context.Context, d time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	f.slept = append(f.slept, d)
	if len(f.slept) > f.limit {
		f.cancel()
		return false
	}
	return true
}

func TestRunAlternatesIntervalAndBackoff(t *testing.T) {
	hs, ps := newStores(t, false)
	reads := []read{{text: "a"}, {err: errors.New("fail")}, {text: "b"}}
	m := New(&scriptBackend{reads: reads}, hs, ps, Config{Interval: 10 * time.Millisecond, Backoff: 30 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fs := &fakeSleeper{limit: 3, cancel: cancel}
	m.sleep = fs.sleep

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []time.Duration{10 * time.Millisecond, 10 * time.Millisecond, 30 * time.Millisecond, 10 * time.Millisecond}
	if diff := cmp.Diff(want, fs.slept); diff != "" {
		t.Errorf("sleeps (-want +got):\n%s", diff)
	}
}

func TestRunFatalSaveErrors(t *testing.T) {
	hs := store.New(store.NewHistory(filepath.Join(t.TempDir(), "missing", "history.json")))
	ps := store.New(store.Preferences{SaveHistory: true})
	m := New(&scriptBackend{reads: texts("x")}, hs, ps, Config{FatalSaveErrors: true})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.sleep = (&fakeSleeper{limit: 10, cancel: cancel}).sleep

	var pe *store.PersistError
	if err := m.Run(ctx); !errors.As(err, &pe) {
		t.Errorf("Run err = %v, want *PersistError", err)
	}
}
