// Package component builds bar components from configuration.
package component

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/geometry"
)

// Runner launches a shell command without waiting for it.
type Runner func(command string, env []string) error

// DesktopSwitcher changes the current virtual desktop.
type DesktopSwitcher interface {
	SwitchDesktop(index int) error
}

// Deps are the collaborators components may act through.
type Deps struct {
	Desktops DesktopSwitcher
	Run      Runner
	Logger   *slog.Logger
}

func (d Deps) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// ShellRunner returns a Runner that executes commands through sh -c and
// reaps them in the background.
func ShellRunner(logger *slog.Logger) Runner {
	return func(command string, env []string) error {
		cmd := exec.Command("sh", "-c", command)
		cmd.Env = append(os.Environ(), env...)
		cmd.Stderr = os.Stderr
		if err := cmd.Start(); err != nil {
			return fmt.Errorf("start %q: %w", command, err)
		}
		go func() {
			if err := cmd.Wait(); err != nil {
				logger.Warn("on_click command failed", "command", command, "error", err)
			}
		}()
		return nil
	}
}

// Build creates the component described by spec.
func Build(spec config.ComponentSpec, deps Deps) (bar.Component, error) {
	switch spec.Kind {
	case config.KindText:
		return newText(spec, deps), nil
	case config.KindClock:
		return newClock(spec), nil
	case config.KindWorkspaces:
		return newWorkspaces(spec, deps), nil
	case config.KindTitle:
		return newTitle(spec), nil
	case config.KindLua:
		return newLua(spec, deps)
	default:
		return nil, fmt.Errorf("unknown component kind %q", spec.Kind)
	}
}

// BuildAll creates the three component lists. Nothing is leaked when a
// later component fails.
func BuildAll(cfg config.ComponentsConfig, deps Deps) (bar.Components, error) {
	var out bar.Components
	lists := []struct {
		name  string
		specs []config.ComponentSpec
		dst   *[]bar.Component
	}{
		{"left", cfg.Left, &out.Left},
		{"center", cfg.Center, &out.Center},
		{"right", cfg.Right, &out.Right},
	}

	for _, list := range lists {
		for i, spec := range list.specs {
			c, err := Build(spec, deps)
			if err != nil {
				Close(out)
				return bar.Components{}, fmt.Errorf("components.%s[%d]: %w", list.name, i, err)
			}
			*list.dst = append(*list.dst, c)
		}
	}
	return out, nil
}

// Close releases components that hold resources, such as Lua states.
func Close(c bar.Components) {
	for _, list := range [][]bar.Component{c.Left, c.Center, c.Right} {
		for _, comp := range list {
			if closer, ok := comp.(io.Closer); ok {
				_ = closer.Close()
			}
		}
	}
}

// Settings converts the bar section of cfg.
func Settings(cfg *config.Config) bar.Settings {
	pos, err := geometry.ParsePosition(cfg.Bar.Position)
	if err != nil {
		pos = geometry.Top
	}
	return bar.Settings{
		LightTheme: cfg.LightTheme,
		Height:     cfg.Bar.Height,
		Background: bar.Color(cfg.Bar.Color),
		Font:       cfg.Bar.Font,
		Position:   pos,
	}
}

func colorPtr(c *config.Color) *bar.Color {
	if c == nil {
		return nil
	}
	v := bar.Color(*c)
	return &v
}
