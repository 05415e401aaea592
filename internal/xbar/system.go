// Package xbar creates bar windows on X11 as EWMH docks and feeds their
// input and exposure events into the compositor.
package xbar

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/geometry"
	"github.com/1broseidon/tilebar/internal/platform"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	wmName  = "tilebar"
	wmClass = "Tilebar"

	// allDesktops is the _NET_WM_DESKTOP value for sticky windows.
	allDesktops = 0xFFFFFFFF

	eventMask = xproto.EventMaskExposure |
		xproto.EventMaskButtonPress |
		xproto.EventMaskPointerMotion |
		xproto.EventMaskStructureNotify
)

// Owner tracks windows created by this process.
type Owner interface {
	Own(id platform.WindowID)
	Disown(id platform.WindowID)
}

// Config wires a System to its surroundings.
type Config struct {
	// Post receives window events; normally Compositor.Post.
	Post   func(bar.Event)
	Owner  Owner
	Logger *slog.Logger
}

// System implements bar.WindowSystem on an X11 connection.
type System struct {
	xu     *xgbutil.XUtil
	post   func(bar.Event)
	owner  Owner
	logger *slog.Logger

	once    sync.Once
	cursors cursorSet
	curErr  error
}

var _ bar.WindowSystem = (*System)(nil)

func New(xu *xgbutil.XUtil, cfg Config) *System {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	post := cfg.Post
	if post == nil {
		post = func(bar.Event) {}
	}
	return &System{xu: xu, post: post, owner: cfg.Owner, logger: logger}
}

// CreateWindow maps a dock window along the configured edge of the
// display and reserves its space with struts.
func (s *System) CreateWindow(spec bar.WindowSpec) (bar.Window, error) {
	if s.xu == nil {
		return nil, fmt.Errorf("x11 connection is nil")
	}
	rect := geometry.BarRect(spec.Display, spec.Settings.Height, spec.Settings.Position)
	if rect.Width <= 0 || rect.Height <= 0 {
		return nil, fmt.Errorf("display %d has no usable area", spec.Display.ID)
	}

	s.once.Do(func() {
		s.cursors, s.curErr = openCursors(s.xu.Conn())
		if s.curErr != nil {
			s.logger.Warn("cursor font unavailable, pointer feedback disabled", "error", s.curErr)
		}
	})

	win, err := xwindow.Generate(s.xu)
	if err != nil {
		return nil, fmt.Errorf("allocate window id: %w", err)
	}
	// Value list order follows the mask bit positions: back pixel, then event mask.
	err = win.CreateChecked(s.xu.RootWin(), rect.X, rect.Y, rect.Width, rect.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		uint32(spec.Settings.Background), uint32(eventMask))
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}

	if err := s.setDockProperties(win.Id, rect, spec.Settings.Position); err != nil {
		win.Destroy()
		return nil, err
	}

	surf, err := newSurface(s.xu.Conn(), win.Id, spec.Settings, s.cursors)
	if err != nil {
		win.Destroy()
		return nil, err
	}

	w := &Window{sys: s, win: win, surface: surf, display: spec.Display}
	w.connect()
	if s.owner != nil {
		s.owner.Own(w.ID())
	}

	win.Map()
	s.logger.Debug("dock window mapped", "window", win.Id, "display", spec.Display.ID,
		"x", rect.X, "y", rect.Y, "width", rect.Width, "height", rect.Height)
	return w, nil
}

func (s *System) setDockProperties(id xproto.Window, rect platform.Rect, pos geometry.Position) error {
	if err := ewmh.WmWindowTypeSet(s.xu, id, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		return fmt.Errorf("set window type: %w", err)
	}
	if err := ewmh.WmStateSet(s.xu, id, []string{"_NET_WM_STATE_STICKY", "_NET_WM_STATE_ABOVE"}); err != nil {
		return fmt.Errorf("set window state: %w", err)
	}
	if err := ewmh.WmDesktopSet(s.xu, id, allDesktops); err != nil {
		return fmt.Errorf("set window desktop: %w", err)
	}

	strut := geometry.NewStrut(rect, pos, int(s.xu.Screen().HeightInPixels))
	if err := ewmh.WmStrutPartialSet(s.xu, id, &ewmh.WmStrutPartial{
		Top:          uint(strut.Top),
		Bottom:       uint(strut.Bottom),
		TopStartX:    uint(strut.TopStartX),
		TopEndX:      uint(strut.TopEndX),
		BottomStartX: uint(strut.BottomStartX),
		BottomEndX:   uint(strut.BottomEndX),
	}); err != nil {
		return fmt.Errorf("set strut partial: %w", err)
	}
	// Older window managers only read _NET_WM_STRUT.
	if err := ewmh.WmStrutSet(s.xu, id, &ewmh.WmStrut{Top: uint(strut.Top), Bottom: uint(strut.Bottom)}); err != nil {
		return fmt.Errorf("set strut: %w", err)
	}

	if err := ewmh.WmNameSet(s.xu, id, wmName); err != nil {
		return fmt.Errorf("set name: %w", err)
	}
	if err := icccm.WmNameSet(s.xu, id, wmName); err != nil {
		return fmt.Errorf("set icccm name: %w", err)
	}
	if err := icccm.WmClassSet(s.xu, id, &icccm.WmClass{Instance: wmName, Class: wmClass}); err != nil {
		return fmt.Errorf("set class: %w", err)
	}
	return nil
}

// Window is a mapped dock window.
type Window struct {
	sys     *System
	win     *xwindow.Window
	surface *surface
	display platform.Display

	mu        sync.Mutex
	destroyed bool
}

func (w *Window) ID() platform.WindowID { return platform.WindowID(w.win.Id) }
func (w *Window) Surface() bar.Drawer   { return w.surface }

// connect routes X events for this window to the compositor.
func (w *Window) connect() {
	xu := w.sys.xu
	id := w.ID()

	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		// Only the last expose of a batch triggers a repaint.
		if ev.Count == 0 {
			w.sys.post(bar.DrawRequested{Window: id, Display: w.display})
		}
	}).Connect(xu, w.win.Id)

	xevent.ButtonPressFun(func(_ *xgbutil.XUtil, ev xevent.ButtonPressEvent) {
		if !isClickButton(ev.Detail) {
			return
		}
		w.sys.post(bar.Clicked{Window: id, X: int(ev.EventX), Display: w.display})
	}).Connect(xu, w.win.Id)

	xevent.MotionNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MotionNotifyEvent) {
		w.sys.post(bar.PointerMoved{Window: id, X: int(ev.EventX), Display: w.display})
	}).Connect(xu, w.win.Id)

	xevent.DestroyNotifyFun(func(*xgbutil.XUtil, xevent.DestroyNotifyEvent) {
		w.sys.post(bar.Close{Window: id})
		w.release(false)
	}).Connect(xu, w.win.Id)
}

// isClickButton accepts the left, middle and right buttons; wheel
// buttons are ignored.
func isClickButton(b xproto.Button) bool {
	return b >= xproto.ButtonIndex1 && b <= xproto.ButtonIndex3
}

// Destroy unmaps and destroys the window and frees its drawing resources.
func (w *Window) Destroy() error {
	w.release(true)
	return nil
}

// release frees resources once. destroyWindow is false when the server
// already destroyed the window.
func (w *Window) release(destroyWindow bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return
	}
	w.destroyed = true

	xevent.Detach(w.sys.xu, w.win.Id)
	w.surface.free()
	if destroyWindow {
		w.win.Destroy()
	}
	if w.sys.owner != nil {
		w.sys.owner.Disown(w.ID())
	}
}
