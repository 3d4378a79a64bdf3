package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
)

// ErrCorrupt marks a persisted file that exists but could not be decoded.
var ErrCorrupt = errors.New("corrupt file")

// History is the ordered clip list. Insertion order is the only ordering.
type History struct {
	Items []string `json:"list_items"`

	path string
}

// NewHistory returns an empty history persisted at path.
func NewHistory(path string) History {
	return History{Items: []string{}, path: path}
}

// LoadHistory reads the history file at path. It always returns a usable
// History: a missing file yields an empty list silently, while a corrupt or
// unreadable file yields an empty list together with an error describing why
// the previous contents were dropped, for the caller to log.
func LoadHistory(path string) (History, error) {
	h := NewHistory(path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return h, nil
		}
		return h, fmt.Errorf("read history: %w", err)
	}
	var doc History
	if err := json.Unmarshal(data, &doc); err != nil {
		return h, fmt.Errorf("decode history %s: %w: %w", path, ErrCorrupt, err)
	}
	if doc.Items != nil {
		h.Items = doc.Items
	}
	return h, nil
}

// Path is where the history is persisted.
func (h *History) Path() string { return h.path }

// Append adds an entry at the end.
func (h *History) Append(item string) {
	h.Items = append(h.Items, item)
}

// Remove deletes the entry at index i, keeping the others in order.
func (h *History) Remove(i int) error {
	if i < 0 || i >= len(h.Items) {
		return fmt.Errorf("remove %d of %d: %w", i, len(h.Items), ErrIndexOutOfRange)
	}
	h.Items = slices.Delete(h.Items, i, i+1)
	return nil
}

// At returns the entry at index i.
func (h *History) At(i int) (string, error) {
	if i < 0 || i >= len(h.Items) {
		return "", fmt.Errorf("entry %d of %d: %w", i, len(h.Items), ErrIndexOutOfRange)
	}
	return h.Items[i], nil
}

// Clear drops every entry.
func (h *History) Clear() {
	h.Items = h.Items[:0]
}

// Len is the number of entries.
func (h *History) Len() int { return len(h.Items) }

// Last returns the newest entry.
func (h *History) Last() (string, bool) {
	if len(h.Items) == 0 {
		return "", false
	}
	return h.Items[len(h.Items)-1], true
}

// Snapshot returns a copy of the entries that is safe to use after the lock
// is released.
func (h *History) Snapshot() []string {
	return slices.Clone(h.Items)
}

// Marshal encodes the history document.
func (h *History) Marshal() ([]byte, error) {
	items := h.Items
	if items == nil {
		items = []string{}
	}
	return json.Marshal(History{Items: items})
}

// Save overwrites the history file with the current entries. The write is a
// plain truncate-and-write, not an atomic rename.
func (h *History) Save() error {
	data, err := h.Marshal()
	if err != nil {
		return &PersistError{Op: "encode", Path: h.path, Err: err}
	}
	if err := os.WriteFile(h.path, data, 0o644); err != nil {
		return &PersistError{Op: "write", Path: h.path, Err: err}
	}
	return nil
}

// DeleteFile removes the history file. A missing file is not an error.
func (h *History) DeleteFile() error {
	if err := os.Remove(h.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &PersistError{Op: "delete", Path: h.path, Err: err}
	}
	return nil
}
