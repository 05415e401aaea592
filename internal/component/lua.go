package component

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
	glua "github.com/yuin/gopher-lua"
)

// Script calls run on the compositor loop and are cut off after this long.
const (
	luaCallTimeout = 100 * time.Millisecond
	luaLoadTimeout = time.Second
)

// Lua delegates rendering to a script defining render(ctx) and, optionally,
// on_click(display_id, index). The state is only touched from the
// compositor loop.
type Lua struct {
	name    string
	L       *glua.LState
	render  *glua.LFunction
	onClick *glua.LFunction
	logger  *slog.Logger
	timeout time.Duration
}

func newLua(spec config.ComponentSpec, deps Deps) (*Lua, error) {
	L := glua.NewState()

	name := "inline"
	ctx, cancel := context.WithTimeout(context.Background(), luaLoadTimeout)
	L.SetContext(ctx)
	var err error
	if spec.ScriptFile != "" {
		name = spec.ScriptFile
		err = L.DoFile(spec.ScriptFile)
	} else {
		err = L.DoString(spec.Script)
	}
	L.RemoveContext()
	cancel()
	if err != nil {
		L.Close()
		return nil, fmt.Errorf("load lua script %s: %w", name, err)
	}

	render, ok := L.GetGlobal("render").(*glua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("lua script %s: render function not defined", name)
	}
	onClick, _ := L.GetGlobal("on_click").(*glua.LFunction)

	return &Lua{
		name:    name,
		L:       L,
		render:  render,
		onClick: onClick,
		logger:  deps.logger(),
		timeout: luaCallTimeout,
	}, nil
}

// call runs fn in protected mode under the per-call deadline.
func (l *Lua) call(fn *glua.LFunction, nret int, args ...glua.LValue) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()
	l.L.SetContext(ctx)
	defer l.L.RemoveContext()
	return l.L.CallByParam(glua.P{Fn: fn, NRet: nret, Protect: true}, args...)
}

// Render calls render(ctx). Script errors become a visible fragment
// instead of failing the frame.
func (l *Lua) Render(ctx bar.Context) []bar.Text {
	if l.L == nil {
		return nil
	}

	arg := l.L.NewTable()
	l.L.SetField(arg, "display", glua.LNumber(ctx.Display.ID))
	l.L.SetField(arg, "display_name", glua.LString(ctx.Display.Name))
	l.L.SetField(arg, "width", glua.LNumber(ctx.Display.WorkingAreaWidth()))
	l.L.SetField(arg, "dpi", glua.LNumber(ctx.Display.DPI))
	l.L.SetField(arg, "desktop", glua.LNumber(ctx.Workspace.Current))
	l.L.SetField(arg, "desktops", glua.LNumber(ctx.Workspace.Count()))
	l.L.SetField(arg, "title", glua.LString(ctx.Workspace.ActiveTitle))
	l.L.SetField(arg, "time", glua.LNumber(ctx.Now.Unix()))
	l.L.SetField(arg, "light_theme", glua.LBool(ctx.Settings.LightTheme))

	if err := l.call(l.render, 1, arg); err != nil {
		return []bar.Text{bar.Plain("lua: " + firstLine(err.Error()))}
	}

	result := l.L.Get(-1)
	l.L.Pop(1)

	// Return value can be a string or an array of strings / {text, fg, bg}.
	switch v := result.(type) {
	case glua.LString:
		return []bar.Text{bar.Plain(string(v))}
	case *glua.LTable:
		n := v.Len()
		out := make([]bar.Text, 0, n)
		for i := 1; i <= n; i++ {
			out = append(out, l.fragment(v.RawGetInt(i)))
		}
		return out
	default:
		return nil
	}
}

func (l *Lua) fragment(v glua.LValue) bar.Text {
	switch f := v.(type) {
	case glua.LString:
		return bar.Plain(string(f))
	case *glua.LTable:
		t := bar.Text{Text: luaStringOrEmpty(l.L.GetField(f, "text"))}
		t.Fg = l.color(l.L.GetField(f, "fg"))
		t.Bg = l.color(l.L.GetField(f, "bg"))
		return t
	default:
		return bar.Plain(luaStringOrEmpty(v))
	}
}

func (l *Lua) color(v glua.LValue) *bar.Color {
	s, ok := v.(glua.LString)
	if !ok {
		return nil
	}
	c, err := config.ParseColor(string(s))
	if err != nil {
		l.logger.Debug("lua fragment color ignored", "script", l.name, "error", err)
		return nil
	}
	out := bar.Color(c)
	return &out
}

func (l *Lua) Clickable() bool {
	return l.onClick != nil
}

// OnClick calls on_click(display_id, index) with a 0-based fragment index.
func (l *Lua) OnClick(d platform.Display, fragment int) {
	if l.onClick == nil || l.L == nil {
		return
	}
	if err := l.call(l.onClick, 0, glua.LNumber(d.ID), glua.LNumber(fragment)); err != nil {
		l.logger.Warn("lua on_click failed", "script", l.name, "error", firstLine(err.Error()))
	}
}

// Close releases the Lua state.
func (l *Lua) Close() error {
	if l.L != nil {
		l.L.Close()
		l.L = nil
	}
	return nil
}

// luaStringOrEmpty returns the string value of a Lua value, or empty string if nil.
func luaStringOrEmpty(v glua.LValue) string {
	if v == glua.LNil {
		return ""
	}
	return v.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
