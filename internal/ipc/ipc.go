// Package ipc locates and opens the local Unix-socket channel used by the
// clipstash CLI to talk to a running instance, and by a second launch to hand
// over to the first one.
//
// The socket carries both gRPC and plain HTTP/1.1; see package control.
package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// SocketEnv overrides the socket path.
const SocketEnv = "CLIPSTASH_SOCKET"

const socketName = "clipstash.sock"

// ErrRunning is returned by Listen when another instance owns the socket.
var ErrRunning = errors.New("another instance is running")

// SocketPath returns the IPC socket path.
//
//   - $CLIPSTASH_SOCKET when set
//   - $XDG_RUNTIME_DIR/clipstash.sock (Linux, and anywhere else it is set)
//   - $TMPDIR/clipstash.sock otherwise
func SocketPath() string {
	if s := os.Getenv(SocketEnv); s != "" {
		return s
	}
	if os.Getenv("XDG_RUNTIME_DIR") != "" && xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, socketName)
	}
	return filepath.Join(os.TempDir(), socketName)
}

// IsRunning reports whether an instance appears to be listening on path.
// It does a cheap dial-and-close; no data is exchanged.
func IsRunning(path string) bool {
	c, err := net.DialTimeout("unix", path, time.Second)
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen opens the socket at path. A socket file left behind by a crashed
// run is removed first; a live one yields ErrRunning.
func Listen(path string) (net.Listener, error) {
	if IsRunning(path) {
		return nil, ErrRunning
	}
	_ = os.Remove(path)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("socket directory: %w", err)
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", path, err)
	}
	// owner-only; best effort on platforms without unix permissions
	_ = os.Chmod(path, 0o600)
	return ln, nil
}

// Dialer returns a context dialer for the socket at path, for gRPC and HTTP
// clients.
func Dialer(path string) func(ctx context.Context, _ string) (net.Conn, error) {
	return func(ctx context.Context, _ string) (net.Conn, error) {
		var d net.Dialer
		return d.DialContext(ctx, "unix", path)
	}
}
