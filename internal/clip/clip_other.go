//go:build !darwin && !windows && !linux

package clip

// New returns an in-memory backend; this platform has no clipboard support.
func New() Backend {
	return NewHeadless()
}
