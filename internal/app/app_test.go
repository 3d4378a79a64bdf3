package app

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"go.klb.dev/clipstash/internal/autostart"
	"go.klb.dev/clipstash/internal/clip"
	"go.klb.dev/clipstash/internal/paths"
	"go.klb.dev/clipstash/internal/store"
	"go.klb.dev/clipstash/internal/tray"
)

type fakeLauncher struct {
	on  bool
	err error
}

func (f *fakeLauncher) IsEnabled() (bool, error) { return f.on, f.err }
func (f *fakeLauncher) Enable() error            { f.on = true; return nil }
func (f *fakeLauncher) Disable() error           { f.on = false; return nil }

func newTestContext(t *testing.T, items ...string) (*Context, *clip.Headless) {
	t.Helper()
	root := t.TempDir()
	dirs := paths.Dirs{Data: filepath.Join(root, "data"), Config: filepath.Join(root, "config")}
	cb := clip.NewHeadless()
	c, err := New(Options{Dirs: dirs, Clipboard: cb, Autostart: &fakeLauncher{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_ = c.History.Do(func(h *store.History) error {
		for _, it := range items {
			h.Append(it)
		}
		return nil
	})
	return c, cb
}

func historyPath(c *Context) string {
	h := c.History.Get()
	return h.Path()
}

func fileExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Stat(path)
	return err == nil
}

func TestNewDefaults(t *testing.T) {
	c, _ := newTestContext(t)
	p := c.Preferences()
	if !p.TrimClips || !p.SaveHistory {
		t.Errorf("fresh preferences = %+v, want both enabled", p)
	}
	if len(c.Snapshot()) != 0 {
		t.Error("fresh history not empty")
	}
}

func TestNewLoadsPersistedHistory(t *testing.T) {
	root := t.TempDir()
	dirs := paths.Dirs{Data: root, Config: root}
	h := store.NewHistory(dirs.HistoryFile())
	h.Append("kept")
	if err := h.Save(); err != nil {
		t.Fatal(err)
	}
	c, err := New(Options{Dirs: dirs})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"kept"}, c.Snapshot()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestNewFailsWhenDirectoryCannotBeCreated(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(Options{Dirs: paths.Dirs{Data: filepath.Join(blocker, "x"), Config: blocker + "-cfg"}})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestCopy(t *testing.T) {
	c, cb := newTestContext(t, "a", "b")
	if err := c.Copy(0); err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if got, _ := cb.ReadText(); got != "a" {
		t.Errorf("clipboard = %q", got)
	}
	if err := c.Copy(7); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Errorf("Copy(7) err = %v", err)
	}
}

func TestRemovePersistsWhenEnabled(t *testing.T) {
	c, _ := newTestContext(t, "a", "b", "c")
	if err := c.Remove(1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, c.Snapshot()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
	loaded, err := store.LoadHistory(historyPath(c))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "c"}, loaded.Items); diff != "" {
		t.Errorf("persisted (-want +got):\n%s", diff)
	}
}

func TestRemoveOutOfRange(t *testing.T) {
	c, _ := newTestContext(t, "a")
	if err := c.Remove(3); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Errorf("err = %v", err)
	}
}

func TestRemoveWaitingOnLockSeesPersistenceTurnedOff(t *testing.T) {
	c, _ := newTestContext(t, "a", "b")
	if err := c.Remove(0); err != nil {
		t.Fatal(err)
	}
	if !fileExists(t, historyPath(c)) {
		t.Fatal("history file not written")
	}

	done := make(chan error, 1)
	_ = c.History.Do(func(h *store.History) error {
		go func() { done <- c.Remove(0) }()
		// let Remove get as far as the history lock
		time.Sleep(50 * time.Millisecond)
		if err := h.DeleteFile(); err != nil {
			t.Error(err)
		}
		return c.Prefs.Do(func(p *store.Preferences) error {
			return p.SetSaveHistory(false)
		})
	})
	if err := <-done; err != nil {
		t.Fatalf("Remove: %v", err)
	}

	if c.Preferences().SaveHistory {
		t.Error("SaveHistory still on")
	}
	if fileExists(t, historyPath(c)) {
		t.Error("history file written while save_history=false")
	}
	if n := len(c.Snapshot()); n != 0 {
		t.Errorf("%d entries left", n)
	}
}

func TestToggleSaveHistoryConcurrent(t *testing.T) {
	c, _ := newTestContext(t, "a")
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.ToggleSaveHistory(); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	// an even number of flips lands back on the default
	if !c.Preferences().SaveHistory {
		t.Error("SaveHistory = false after 10 toggles")
	}
}

func TestEntryOpsRejectMovedEntries(t *testing.T) {
	c, cb := newTestContext(t, "a", "b", "c")

	// the list shifted after "b" was displayed at index 1
	if err := c.Remove(0); err != nil {
		t.Fatal(err)
	}
	if err := c.RemoveEntry(1, "b"); !errors.Is(err, ErrEntryChanged) {
		t.Errorf("RemoveEntry err = %v, want ErrEntryChanged", err)
	}
	if err := c.CopyEntry(1, "b"); !errors.Is(err, ErrEntryChanged) {
		t.Errorf("CopyEntry err = %v, want ErrEntryChanged", err)
	}
	if diff := cmp.Diff([]string{"b", "c"}, c.Snapshot()); diff != "" {
		t.Errorf("history changed (-want +got):\n%s", diff)
	}
	if got, _ := cb.ReadText(); got != "" {
		t.Errorf("clipboard = %q, want untouched", got)
	}

	if err := c.CopyEntry(0, "b"); err != nil {
		t.Fatalf("CopyEntry: %v", err)
	}
	if got, _ := cb.ReadText(); got != "b" {
		t.Errorf("clipboard = %q", got)
	}
	if err := c.RemoveEntry(0, "b"); err != nil {
		t.Fatalf("RemoveEntry: %v", err)
	}
	if err := c.RemoveEntry(5, "x"); !errors.Is(err, store.ErrIndexOutOfRange) {
		t.Errorf("RemoveEntry(5) err = %v", err)
	}
	if diff := cmp.Diff([]string{"c"}, c.Snapshot()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestClearHistoryDeletesFile(t *testing.T) {
	c, _ := newTestContext(t, "a", "b")
	if err := c.Remove(0); err != nil {
		t.Fatal(err)
	}
	if !fileExists(t, historyPath(c)) {
		t.Fatal("history file not written")
	}
	if err := c.ClearHistory(); err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if len(c.Snapshot()) != 0 || fileExists(t, historyPath(c)) {
		t.Error("history not cleared")
	}
}

func TestToggleSaveHistoryDeletesFile(t *testing.T) {
	c, _ := newTestContext(t, "a", "b")
	if err := c.Remove(0); err != nil {
		t.Fatal(err)
	}
	if !fileExists(t, historyPath(c)) {
		t.Fatal("history file not written")
	}

	if err := c.ToggleSaveHistory(); err != nil {
		t.Fatalf("ToggleSaveHistory: %v", err)
	}
	if c.Preferences().SaveHistory {
		t.Error("SaveHistory still on")
	}
	if fileExists(t, historyPath(c)) {
		t.Error("history file kept after disabling persistence")
	}
	if diff := cmp.Diff([]string{"b"}, c.Snapshot()); diff != "" {
		t.Errorf("in-memory history changed (-want +got):\n%s", diff)
	}

	prefs := c.Preferences()
	reloaded, err := store.LoadPreferences(prefs.Path())
	if err != nil || reloaded.SaveHistory {
		t.Errorf("persisted prefs = %+v, %v", reloaded, err)
	}

	if err := c.ToggleSaveHistory(); err != nil {
		t.Fatal(err)
	}
	if !c.Preferences().SaveHistory {
		t.Error("SaveHistory not re-enabled")
	}
}

func TestToggleTrimClips(t *testing.T) {
	c, _ := newTestContext(t)
	if err := c.ToggleTrimClips(); err != nil {
		t.Fatal(err)
	}
	if c.Preferences().TrimClips {
		t.Error("TrimClips still on")
	}
	if err := c.SetTrimClips(true); err != nil {
		t.Fatal(err)
	}
	if !c.Preferences().TrimClips {
		t.Error("TrimClips not set")
	}
}

func TestAutostart(t *testing.T) {
	c, _ := newTestContext(t)
	if c.AutostartEnabled() {
		t.Fatal("enabled before toggle")
	}
	if err := c.ToggleAutostart(); err != nil || !c.AutostartEnabled() {
		t.Fatalf("after toggle: enabled=%v err=%v", c.AutostartEnabled(), err)
	}
	if err := c.ToggleAutostart(); err != nil || c.AutostartEnabled() {
		t.Fatalf("after second toggle: enabled=%v err=%v", c.AutostartEnabled(), err)
	}

	c.Autostart = &fakeLauncher{on: true, err: errors.New("denied")}
	if c.AutostartEnabled() {
		t.Error("error should read as disabled")
	}
	c.Autostart = nil
	if err := c.SetAutostart(true); !errors.Is(err, autostart.ErrUnsupported) {
		t.Errorf("nil launcher err = %v", err)
	}
}

func TestShowQuitUseMailbox(t *testing.T) {
	c, _ := newTestContext(t)
	c.Show()
	c.Quit()
	var got []tray.Message
	for {
		m, ok := c.Mailbox.TryRecv()
		if !ok {
			break
		}
		got = append(got, m)
	}
	if diff := cmp.Diff([]tray.Message{tray.Show, tray.Quit}, got); diff != "" {
		t.Errorf("messages (-want +got):\n%s", diff)
	}
}

func TestExportJSON(t *testing.T) {
	c, _ := newTestContext(t, "x", "y")
	data, err := c.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"list_items":["x","y"]}` {
		t.Errorf("ExportJSON = %s", data)
	}
}
