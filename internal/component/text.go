package component

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
)

// Text renders a fixed string and optionally runs a command when clicked.
type Text struct {
	text    string
	fg, bg  *bar.Color
	onClick string
	run     Runner
	logger  *slog.Logger
}

func newText(spec config.ComponentSpec, deps Deps) *Text {
	run := deps.Run
	if run == nil {
		run = ShellRunner(deps.logger())
	}
	return &Text{
		text:    spec.Text,
		fg:      colorPtr(spec.Fg),
		bg:      colorPtr(spec.Bg),
		onClick: spec.OnClick,
		run:     run,
		logger:  deps.logger(),
	}
}

func (t *Text) Render(bar.Context) []bar.Text {
	return []bar.Text{{Text: t.text, Fg: t.fg, Bg: t.bg}}
}

func (t *Text) Clickable() bool {
	return t.onClick != ""
}

// OnClick runs the configured command with TILEBAR_DISPLAY set.
func (t *Text) OnClick(d platform.Display, _ int) {
	if t.onClick == "" {
		return
	}
	env := []string{fmt.Sprintf("TILEBAR_DISPLAY=%d", d.ID)}
	if err := t.run(t.onClick, env); err != nil {
		t.logger.Warn("on_click failed", "command", t.onClick, "error", err)
	}
}
