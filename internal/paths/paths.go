// Package paths resolves the per-OS directories clipstash keeps its files in.
//
//	data   (history.json)      $XDG_DATA_HOME/clipstash,   ~/Library/Application Support/clipstash, %LOCALAPPDATA%\clipstash
//	config (preferences.json)  $XDG_CONFIG_HOME/clipstash, ~/Library/Application Support/clipstash, %LOCALAPPDATA%\clipstash
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the application directories and the autostart entry.
const AppName = "clipstash"

const (
	historyFile     = "history.json"
	preferencesFile = "preferences.json"
)

// Dirs holds the data and config directories.
type Dirs struct {
	Data   string
	Config string
}

// Resolve returns the standard directories, replacing either with a
// non-empty override.
func Resolve(dataOverride, configOverride string) Dirs {
	d := Dirs{
		Data:   filepath.Join(xdg.DataHome, AppName),
		Config: filepath.Join(xdg.ConfigHome, AppName),
	}
	if dataOverride != "" {
		d.Data = dataOverride
	}
	if configOverride != "" {
		d.Config = configOverride
	}
	return d
}

// Ensure creates both directories. The application cannot run without them,
// so callers treat an error as fatal.
func (d Dirs) Ensure() error {
	for _, dir := range []string{d.Data, d.Config} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// HistoryFile is the persisted clip history.
func (d Dirs) HistoryFile() string { return filepath.Join(d.Data, historyFile) }

// PreferencesFile is the persisted preferences record.
func (d Dirs) PreferencesFile() string { return filepath.Join(d.Config, preferencesFile) }
