// Package runtimepath resolves per-user runtime locations for the daemon.
package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// SocketEnv overrides the IPC socket location.
const SocketEnv = "TILEBAR_SOCKET"

// Dir returns the runtime directory holding the IPC socket. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/tilebar-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/tilebar-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the daemon IPC socket path, honoring TILEBAR_SOCKET.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	// One daemon per X display.
	name := "tilebar.sock"
	if d := displaySuffix(os.Getenv("DISPLAY")); d != "" {
		name = "tilebar-" + d + ".sock"
	}
	return filepath.Join(runtimeDir, name), nil
}

// displaySuffix turns ":0.0" or "host:1" into a file-name-safe token.
func displaySuffix(display string) string {
	out := make([]byte, 0, len(display))
	for i := 0; i < len(display); i++ {
		c := display[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '.', c == '-':
			out = append(out, c)
		case c == ':':
			continue
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
