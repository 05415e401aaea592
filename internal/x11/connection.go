package x11

import (
	"log"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection holds the X11 connection used by every bar and hotkey.
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	// randr is false when the server lacks RandR; monitors then fall back
	// to the root screen.
	randr bool
}

// NewConnection connects to display, or to $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	// Required before any key grab.
	keybind.Initialize(xu)

	c := &Connection{XUtil: xu, Root: xu.RootWin(), randr: true}
	if err := randr.Init(xu.Conn()); err != nil {
		log.Printf("Warning: RandR unavailable, treating the root window as one display: %v", err)
		c.randr = false
	}
	return c, nil
}

// EventLoop runs the X11 event loop until Quit is called.
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit asks a running EventLoop to return.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close disconnects from the X server.
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
