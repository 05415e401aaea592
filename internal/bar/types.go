// Package bar implements the status-bar compositor: section layout,
// incremental repaint, hit testing and the serialized bar lifecycle.
package bar

import (
	"time"

	"github.com/1broseidon/tilebar/internal/geometry"
	"github.com/1broseidon/tilebar/internal/platform"
)

// Color is a 24-bit 0xRRGGBB value.
type Color uint32

const (
	lightForeground Color = 0x333333
	darkForeground  Color = 0xffffff
)

// Text is one fragment produced by a component. Nil colors fall back to
// the theme foreground and the bar background.
type Text struct {
	Text string
	Fg   *Color
	Bg   *Color
}

// Plain returns a fragment without color overrides.
func Plain(s string) Text {
	return Text{Text: s}
}

// Colored returns a fragment with explicit colors.
func Colored(s string, fg, bg Color) Text {
	return Text{Text: s, Fg: &fg, Bg: &bg}
}

// Settings is the bar-wide configuration read on every frame.
type Settings struct {
	LightTheme bool
	Height     int
	Background Color
	Font       string
	Position   geometry.Position
}

// Foreground returns the theme default text color.
func (s Settings) Foreground() Color {
	if s.LightTheme {
		return lightForeground
	}
	return darkForeground
}

// sameWindow reports whether two settings produce identical bar windows.
func (s Settings) sameWindow(o Settings) bool {
	return s.Height == o.Height && s.Font == o.Font && s.Position == o.Position
}

// Context is the snapshot a component renders from.
type Context struct {
	Display   platform.Display
	Workspace platform.Workspace
	Settings  Settings
	Now       time.Time
}

// Component renders fragments and optionally handles clicks on them.
type Component interface {
	Render(ctx Context) []Text
	Clickable() bool
	OnClick(d platform.Display, fragment int)
}

// Components are the three ordered component lists of a bar.
type Components struct {
	Left   []Component
	Center []Component
	Right  []Component
}

// Cursor is the pointer shape shown over a bar.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorClickable
)

func (c Cursor) String() string {
	if c == CursorClickable {
		return "clickable"
	}
	return "default"
}

// Measurer reports the pixel width of text in the bar font.
type Measurer interface {
	Measure(text string) (int, error)
}

// Drawer is the drawing surface of one bar window.
type Drawer interface {
	Measurer
	SetForeground(c Color)
	SetBackground(c Color)
	DrawText(text string, x, y int) error
	FillRect(x, y, w, h int, c Color) error
	SetCursor(c Cursor) error
}

// Window is a bar window created by a WindowSystem.
type Window interface {
	ID() platform.WindowID
	Surface() Drawer
	Destroy() error
}

// WindowSpec describes the window to create for a display.
type WindowSpec struct {
	Display  platform.Display
	Settings Settings
}

// WindowSystem creates bar windows. Implementations deliver input and
// exposure back to the compositor by posting events.
type WindowSystem interface {
	CreateWindow(spec WindowSpec) (Window, error)
}

// WorkspaceSource snapshots virtual desktop state at draw time.
type WorkspaceSource interface {
	Workspace() (platform.Workspace, error)
}
