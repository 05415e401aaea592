package component

import (
	"log/slog"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
)

// Workspaces renders one fragment per virtual desktop. The fragment index
// is the desktop index, so a click switches to the desktop under it.
type Workspaces struct {
	fg, bg             *bar.Color
	activeFg, activeBg *bar.Color
	desktops           DesktopSwitcher
	logger             *slog.Logger
}

func newWorkspaces(spec config.ComponentSpec, deps Deps) *Workspaces {
	w := &Workspaces{
		fg:       colorPtr(spec.Fg),
		bg:       colorPtr(spec.Bg),
		activeFg: colorPtr(spec.ActiveFg),
		activeBg: colorPtr(spec.ActiveBg),
		desktops: deps.Desktops,
		logger:   deps.logger(),
	}
	if w.activeFg == nil && w.activeBg == nil {
		// Without explicit colors the active desktop is shown inverted.
		fg, bg := bar.Color(0x1f2933), bar.Color(0xd8dee9)
		w.activeFg, w.activeBg = &fg, &bg
	}
	return w
}

func (w *Workspaces) Render(ctx bar.Context) []bar.Text {
	names := ctx.Workspace.Names
	out := make([]bar.Text, 0, len(names))
	for i, name := range names {
		t := bar.Text{Text: " " + name + " ", Fg: w.fg, Bg: w.bg}
		if i == ctx.Workspace.Current {
			t.Fg, t.Bg = w.activeFg, w.activeBg
		}
		out = append(out, t)
	}
	return out
}

func (w *Workspaces) Clickable() bool {
	return w.desktops != nil
}

func (w *Workspaces) OnClick(_ platform.Display, fragment int) {
	if w.desktops == nil {
		return
	}
	if err := w.desktops.SwitchDesktop(fragment); err != nil {
		w.logger.Warn("switch desktop failed", "desktop", fragment, "error", err)
	}
}
