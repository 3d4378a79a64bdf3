package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
)

// Preferences is the user-facing settings record. Every setter writes
// through to disk before returning.
type Preferences struct {
	TrimClips   bool `json:"trim_clips"`
	SaveHistory bool `json:"save_history"`

	path string
}

// prefsDoc requires both fields so a document missing either is treated as
// corrupt rather than silently read as false.
type prefsDoc struct {
	TrimClips   *bool `json:"trim_clips"`
	SaveHistory *bool `json:"save_history"`
}

// LoadPreferences reads the preferences file at path.
//
//	file missing              → trim_clips=true,  save_history=true
//	file present but invalid  → trim_clips=true,  save_history=true
//	any other read error      → trim_clips=false, save_history=false
//
// The last case fails closed: when the file cannot be read for a reason
// other than absence, history is not written to disk.
func LoadPreferences(path string) (Preferences, error) {
	enabled := Preferences{TrimClips: true, SaveHistory: true, path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return enabled, nil
		}
		return Preferences{path: path}, &PersistError{Op: "read", Path: path, Err: err}
	}

	var doc prefsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return enabled, &PersistError{Op: "decode", Path: path, Err: errors.Join(ErrCorrupt, err)}
	}
	if doc.TrimClips == nil || doc.SaveHistory == nil {
		return enabled, &PersistError{Op: "decode", Path: path, Err: errors.Join(ErrCorrupt, errors.New("missing field"))}
	}
	return Preferences{TrimClips: *doc.TrimClips, SaveHistory: *doc.SaveHistory, path: path}, nil
}

// Path is where the preferences are persisted.
func (p *Preferences) Path() string { return p.path }

// SetTrimClips updates the flag and persists.
func (p *Preferences) SetTrimClips(v bool) error {
	p.TrimClips = v
	return p.Save()
}

// SetSaveHistory updates the flag and persists.
func (p *Preferences) SetSaveHistory(v bool) error {
	p.SaveHistory = v
	return p.Save()
}

// Save overwrites the preferences file.
func (p *Preferences) Save() error {
	data, err := json.Marshal(p)
	if err != nil {
		return &PersistError{Op: "encode", Path: p.path, Err: err}
	}
	if err := os.WriteFile(p.path, data, 0o644); err != nil {
		return &PersistError{Op: "write", Path: p.path, Err: err}
	}
	return nil
}
