package termdraw

import (
	"errors"
	"sync"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/platform"
)

var errDestroyed = errors.New("window already destroyed")

// Window is a bar window backed by a Canvas.
type Window struct {
	id        platform.WindowID
	display   platform.Display
	canvas    *Canvas
	sys       *System
	destroyed bool
}

func (w *Window) ID() platform.WindowID     { return w.id }
func (w *Window) Surface() bar.Drawer       { return w.canvas }
func (w *Window) Canvas() *Canvas           { return w.canvas }
func (w *Window) Display() platform.Display { return w.display }

// Destroy removes the window from its system.
func (w *Window) Destroy() error {
	w.sys.mu.Lock()
	defer w.sys.mu.Unlock()
	if w.destroyed {
		return errDestroyed
	}
	w.destroyed = true
	delete(w.sys.windows, w.id)
	return nil
}

// System is an in-memory bar.WindowSystem. Each window gets a canvas as
// wide as its display's working area.
type System struct {
	mu      sync.Mutex
	next    platform.WindowID
	windows map[platform.WindowID]*Window
}

func NewSystem() *System {
	return &System{next: 1, windows: make(map[platform.WindowID]*Window)}
}

func (s *System) CreateWindow(spec bar.WindowSpec) (bar.Window, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := &Window{
		id:      s.next,
		display: spec.Display,
		canvas:  NewCanvas(spec.Display.WorkingAreaWidth(), spec.Settings.Background),
		sys:     s,
	}
	s.next++
	s.windows[w.id] = w
	return w, nil
}

// ForDisplay returns the live window for a display id.
func (s *System) ForDisplay(id int) (*Window, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.windows {
		if w.display.ID == id {
			return w, true
		}
	}
	return nil, false
}

// Len returns the number of live windows.
func (s *System) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
