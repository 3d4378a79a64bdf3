package autostart

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"howett.net/plist"
)

func testApp() App {
	return App{
		Name:        "clipstash",
		Label:       "dev.klb.clipstash",
		DisplayName: "Clipboard Manager",
		Exec:        "/opt/clip stash/clipstash",
	}
}

func exercise(t *testing.T, l Launcher) {
	t.Helper()
	if on, err := l.IsEnabled(); err != nil || on {
		t.Fatalf("IsEnabled before Enable = %v, %v", on, err)
	}
	if err := l.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	if on, err := l.IsEnabled(); err != nil || !on {
		t.Fatalf("IsEnabled after Enable = %v, %v", on, err)
	}
	if err := l.Disable(); err != nil {
		t.Fatalf("Disable: %v", err)
	}
	if on, err := l.IsEnabled(); err != nil || on {
		t.Fatalf("IsEnabled after Disable = %v, %v", on, err)
	}
	if err := l.Disable(); err != nil {
		t.Errorf("second Disable: %v", err)
	}
}

func TestDesktopEntryLifecycle(t *testing.T) {
	exercise(t, NewDesktopEntry(testApp(), filepath.Join(t.TempDir(), "autostart")))
}

func TestDesktopEntryContents(t *testing.T) {
	d := NewDesktopEntry(testApp(), t.TempDir())
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(d.Path())
	if err != nil {
		t.Fatal(err)
	}
	for _, line := range []string{
		"[Desktop Entry]",
		"Name=Clipboard Manager",
		`Exec="/opt/clip stash/clipstash"`,
	} {
		if !strings.Contains(string(data), line+"\n") {
			t.Errorf("desktop file missing %q:\n%s", line, data)
		}
	}
	if filepath.Base(d.Path()) != "clipstash.desktop" {
		t.Errorf("Path = %q", d.Path())
	}
}

func TestDesktopEntryOtherExecNotEnabled(t *testing.T) {
	dir := t.TempDir()
	other := testApp()
	other.Exec = "/usr/bin/elsewhere"
	if err := NewDesktopEntry(other, dir).Enable(); err != nil {
		t.Fatal(err)
	}
	on, err := NewDesktopEntry(testApp(), dir).IsEnabled()
	if err != nil || on {
		t.Errorf("IsEnabled for a different executable = %v, %v", on, err)
	}
}

func TestQuoteExecArg(t *testing.T) {
	tests := map[string]string{
		"/usr/bin/clipstash": "/usr/bin/clipstash",
		"with space":         `"with space"`,
		`a"b`:                `"a\"b"`,
		"$HOME":              `"\$HOME"`,
		"":                   `""`,
	}
	for in, want := range tests {
		if got := quoteExecArg(in); got != want {
			t.Errorf("quoteExecArg(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLaunchAgentLifecycle(t *testing.T) {
	exercise(t, NewLaunchAgent(testApp(), filepath.Join(t.TempDir(), "LaunchAgents")))
}

func TestLaunchAgentPlist(t *testing.T) {
	app := testApp()
	app.Args = []string{"run"}
	l := NewLaunchAgent(app, t.TempDir())
	if err := l.Enable(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatal(err)
	}
	var job launchdJob
	if _, err := plist.Unmarshal(data, &job); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := launchdJob{
		Label:            "dev.klb.clipstash",
		ProgramArguments: []string{"/opt/clip stash/clipstash", "run"},
		RunAtLoad:        true,
		ProcessType:      "Interactive",
	}
	if diff := cmp.Diff(want, job); diff != "" {
		t.Errorf("plist (-want +got):\n%s", diff)
	}
	if filepath.Base(l.Path()) != "dev.klb.clipstash.plist" {
		t.Errorf("Path = %q", l.Path())
	}
}

func TestLaunchAgentCorrupt(t *testing.T) {
	l := NewLaunchAgent(testApp(), t.TempDir())
	if err := os.WriteFile(l.Path(), []byte("bplist00garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.IsEnabled(); err == nil {
		t.Error("expected decode error")
	}
}

func TestUnsupported(t *testing.T) {
	var l Launcher = unsupported{}
	if on, err := l.IsEnabled(); on || err != nil {
		t.Errorf("IsEnabled = %v, %v", on, err)
	}
	if err := l.Enable(); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Enable err = %v", err)
	}
}
