package autostart

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DesktopEntry is an XDG autostart .desktop file in dir.
type DesktopEntry struct {
	app App
	dir string
}

// NewDesktopEntry manages dir/<app.Name>.desktop.
func NewDesktopEntry(app App, dir string) *DesktopEntry {
	return &DesktopEntry{app: app, dir: dir}
}

// Path is the desktop file location.
func (d *DesktopEntry) Path() string {
	return filepath.Join(d.dir, d.app.Name+".desktop")
}

func (d *DesktopEntry) IsEnabled() (bool, error) {
	data, err := os.ReadFile(d.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read desktop entry: %w", err)
	}
	want := "Exec=" + execLine(d.app)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == want {
			return true, nil
		}
	}
	return false, sc.Err()
}

func (d *DesktopEntry) Enable() error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("creating autostart directory: %w", err)
	}
	if err := os.WriteFile(d.Path(), []byte(desktopFile(d.app)), 0o644); err != nil {
		return fmt.Errorf("writing desktop entry: %w", err)
	}
	return nil
}

func (d *DesktopEntry) Disable() error {
	if err := os.Remove(d.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing desktop entry: %w", err)
	}
	return nil
}

func desktopFile(app App) string {
	name := app.DisplayName
	if name == "" {
		name = app.Name
	}
	return fmt.Sprintf(`[Desktop Entry]
Type=Application
Version=1.0
Name=%s
Exec=%s
Terminal=false
StartupNotify=false
X-GNOME-Autostart-enabled=true
`, name, execLine(app))
}

// execLine quotes every argument per the desktop entry Exec rules.
func execLine(app App) string {
	parts := make([]string, 0, 1+len(app.Args))
	for _, a := range append([]string{app.Exec}, app.Args...) {
		parts = append(parts, quoteExecArg(a))
	}
	return strings.Join(parts, " ")
}

func quoteExecArg(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n\"'\\><~|&;$*?#()`") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`", `$`, `\$`)
	return `"` + r.Replace(s) + `"`
}
