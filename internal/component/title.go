package component

import (
	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
	"github.com/mattn/go-runewidth"
)

// Title renders the focused window title.
type Title struct {
	maxWidth int
	fg, bg   *bar.Color
}

func newTitle(spec config.ComponentSpec) *Title {
	return &Title{maxWidth: spec.MaxWidth, fg: colorPtr(spec.Fg), bg: colorPtr(spec.Bg)}
}

func (t *Title) Render(ctx bar.Context) []bar.Text {
	title := ctx.Workspace.ActiveTitle
	if t.maxWidth > 0 {
		title = runewidth.Truncate(title, t.maxWidth, "…")
	}
	return []bar.Text{{Text: title, Fg: t.fg, Bg: t.bg}}
}

func (t *Title) Clickable() bool { return false }

func (t *Title) OnClick(platform.Display, int) {}
