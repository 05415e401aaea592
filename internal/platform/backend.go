package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// DefaultDPI is reported when a display does not expose its physical size.
const DefaultDPI = 96

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
	DPI    int
}

// WorkingAreaWidth returns the width of the usable area.
func (d Display) WorkingAreaWidth() int {
	return d.Usable.Width
}

// Workspace is a snapshot of virtual desktop state at draw time.
type Workspace struct {
	Current     int
	Names       []string
	ActiveTitle string
}

// Count returns the number of known desktops.
func (w Workspace) Count() int {
	return len(w.Names)
}

// Backend abstracts window-system queries the bar needs across platforms.
type Backend interface {
	Displays() ([]Display, error)
	Workspace() (Workspace, error)
	SwitchDesktop(index int) error
}
