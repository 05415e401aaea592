//go:build linux

package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/tilebar/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection

	mu  sync.RWMutex
	own map[xproto.Window]bool
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn, own: make(map[xproto.Window]bool)}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection to $DISPLAY.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return NewLinuxBackend(conn), nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops a running EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// Conn returns the raw xgb connection.
func (b *LinuxBackend) Conn() *xgb.Conn {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil.Conn()
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Own marks a window as one of ours so its struts do not shrink the
// usable area reported by Displays.
func (b *LinuxBackend) Own(id WindowID) {
	b.mu.Lock()
	b.own[xproto.Window(id)] = true
	b.mu.Unlock()
}

// Disown reverses Own once the window is destroyed.
func (b *LinuxBackend) Disown(id WindowID) {
	b.mu.Lock()
	delete(b.own, xproto.Window(id))
	b.mu.Unlock()
}

// Displays returns all active displays with their usable work areas.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	b.mu.RLock()
	skip := make(map[xproto.Window]bool, len(b.own))
	for w := range b.own {
		skip[w] = true
	}
	b.mu.RUnlock()

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, displayFromMonitor(m, conn.WorkArea(m, skip)))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// Workspace snapshots the current desktop, desktop names and focused title.
func (b *LinuxBackend) Workspace() (Workspace, error) {
	conn, err := b.connection()
	if err != nil {
		return Workspace{}, err
	}

	names, err := conn.GetDesktopNames()
	if err != nil {
		return Workspace{}, err
	}
	current, err := conn.GetCurrentDesktop()
	if err != nil {
		return Workspace{}, err
	}

	return Workspace{
		Current:     current,
		Names:       names,
		ActiveTitle: conn.ActiveWindowTitle(),
	}, nil
}

// SwitchDesktop requests a change of the current virtual desktop.
func (b *LinuxBackend) SwitchDesktop(index int) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetCurrentDesktop(index)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func displayFromMonitor(m, work x11.Monitor) Display {
	dpi := m.DPI()
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return Display{
		ID:   m.ID,
		Name: m.Name,
		Bounds: Rect{
			X:      m.X,
			Y:      m.Y,
			Width:  m.Width,
			Height: m.Height,
		},
		Usable: Rect{
			X:      work.X,
			Y:      work.Y,
			Width:  work.Width,
			Height: work.Height,
		},
		DPI: dpi,
	}
}
