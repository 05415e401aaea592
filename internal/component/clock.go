package component

import (
	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
)

// Clock renders the frame time with a Go time layout.
type Clock struct {
	format string
	fg, bg *bar.Color
}

func newClock(spec config.ComponentSpec) *Clock {
	format := spec.Format
	if format == "" {
		format = config.DefaultClockFormat
	}
	return &Clock{format: format, fg: colorPtr(spec.Fg), bg: colorPtr(spec.Bg)}
}

func (c *Clock) Render(ctx bar.Context) []bar.Text {
	return []bar.Text{{Text: ctx.Now.Format(c.format), Fg: c.fg, Bg: c.bg}}
}

func (c *Clock) Clickable() bool { return false }

func (c *Clock) OnClick(platform.Display, int) {}
