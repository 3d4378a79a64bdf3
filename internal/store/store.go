// Package store holds the process-wide mutable state of clipstash: the clip
// history and the preferences record. Each lives in its own Store behind its
// own leaf lock.
//
// Lock discipline: hold a Store only for the critical section passed to Do,
// never across a sleep or a blocking call. Code that needs both locks at once
// (the monitor's append-then-maybe-persist, and turning persistence off)
// always takes history first and preferences second.
package store

import (
	"errors"
	"fmt"
	"sync"
)

// ErrIndexOutOfRange is returned when removing or reading an entry that does
// not exist.
var ErrIndexOutOfRange = errors.New("index out of range")

// Store is a mutex-guarded value shared between goroutines.
type Store[T any] struct {
	mu sync.Mutex
	v  T
}

// New wraps an already-loaded value.
func New[T any](v T) *Store[T] {
	return &Store[T]{v: v}
}

// Do runs fn with exclusive access to the value and returns its error.
// The lock is released when fn returns; fn must not sleep or block.
func (s *Store[T]) Do(fn func(v *T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.v)
}

// Get returns a copy of the value taken under the lock.
func (s *Store[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v
}

// PersistError reports a failed write or delete of a persisted file.
type PersistError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }
