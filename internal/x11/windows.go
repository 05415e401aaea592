package x11

import (
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// GetActiveWindow returns the window with input focus according to EWMH.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}

// WindowTitle returns the EWMH title of a window, falling back to WM_NAME.
func (c *Connection) WindowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}

	return ""
}

// ActiveWindowTitle returns the title of the focused window, or "" when
// nothing is focused.
func (c *Connection) ActiveWindowTitle() string {
	active, err := c.GetActiveWindow()
	if err != nil || active == 0 {
		return ""
	}
	return c.WindowTitle(active)
}
