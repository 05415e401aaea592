package bar

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/tilebar/internal/platform"
)

var errBoom = errors.New("boom")

type op struct {
	kind  string
	x, w  int
	text  string
	color Color
	fg    Color
}

// recordingDrawer measures text as 10px per byte and records draw calls.
type recordingDrawer struct {
	mu          sync.Mutex
	ops         []op
	fg, bg      Color
	cursor      Cursor
	empty       int // width reported for ""
	failText    string
	panicText   string
	failMeasure bool
}

func (d *recordingDrawer) Measure(text string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failMeasure {
		return 0, errBoom
	}
	if text == "" {
		return d.empty, nil
	}
	return 10 * len(text), nil
}

func (d *recordingDrawer) SetForeground(c Color) { d.mu.Lock(); d.fg = c; d.mu.Unlock() }
func (d *recordingDrawer) SetBackground(c Color) { d.mu.Lock(); d.bg = c; d.mu.Unlock() }

func (d *recordingDrawer) DrawText(text string, x, y int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.failText != "" && text == d.failText {
		return errBoom
	}
	if d.panicText != "" && text == d.panicText {
		panic("draw " + text)
	}
	d.ops = append(d.ops, op{kind: "text", x: x, text: text, color: d.bg, fg: d.fg})
	return nil
}

func (d *recordingDrawer) FillRect(x, y, w, h int, c Color) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, op{kind: "fill", x: x, w: w, color: c})
	return nil
}

func (d *recordingDrawer) SetCursor(c Cursor) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = c
	return nil
}

func (d *recordingDrawer) texts() []op {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []op
	for _, o := range d.ops {
		if o.kind == "text" {
			out = append(out, o)
		}
	}
	return out
}

func (d *recordingDrawer) reset() {
	d.mu.Lock()
	d.ops = nil
	d.mu.Unlock()
}

func (d *recordingDrawer) set(fn func(d *recordingDrawer)) {
	d.mu.Lock()
	fn(d)
	d.mu.Unlock()
}

type fakeComponent struct {
	mu        sync.Mutex
	texts     []Text
	clickable bool
	clicks    []int
	displays  []int
}

func fake(clickable bool, texts ...string) *fakeComponent {
	c := &fakeComponent{clickable: clickable}
	for _, t := range texts {
		c.texts = append(c.texts, Plain(t))
	}
	return c
}

func (c *fakeComponent) Render(Context) []Text {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Text(nil), c.texts...)
}

func (c *fakeComponent) Clickable() bool { return c.clickable }

func (c *fakeComponent) OnClick(d platform.Display, fragment int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clicks = append(c.clicks, fragment)
	c.displays = append(c.displays, d.ID)
}

func (c *fakeComponent) setTexts(texts ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.texts = nil
	for _, t := range texts {
		c.texts = append(c.texts, Plain(t))
	}
}

func (c *fakeComponent) gotClicks() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.clicks...)
}

type fakeWindow struct {
	id        platform.WindowID
	drawer    *recordingDrawer
	destroyed bool
}

func (w *fakeWindow) ID() platform.WindowID { return w.id }
func (w *fakeWindow) Surface() Drawer       { return w.drawer }
func (w *fakeWindow) Destroy() error        { w.destroyed = true; return nil }

type fakeWindowSystem struct {
	mu      sync.Mutex
	next    platform.WindowID
	windows []*fakeWindow
	specs   []WindowSpec
}

func (ws *fakeWindowSystem) CreateWindow(spec WindowSpec) (Window, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.next++
	w := &fakeWindow{id: ws.next, drawer: &recordingDrawer{}}
	ws.windows = append(ws.windows, w)
	ws.specs = append(ws.specs, spec)
	return w, nil
}

func (ws *fakeWindowSystem) window(i int) *fakeWindow {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.windows[i]
}

func (ws *fakeWindowSystem) count() int {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return len(ws.windows)
}

func testDisplay(id, width int) platform.Display {
	r := platform.Rect{Width: width, Height: 768}
	return platform.Display{ID: id, Name: "test", Bounds: r, Usable: r, DPI: platform.DefaultDPI}
}

func testSettings() Settings {
	return Settings{Height: 20, Background: 0x101010, Font: "fixed", Position: "top"}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startCompositor runs a compositor loop for the duration of the test.
func startCompositor(t *testing.T, opts Options) *Compositor {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = testLogger()
	}
	c := New(opts)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = c.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return c
}

func syncLoop(t *testing.T, c *Compositor) Status {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := c.Status(ctx)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	return s
}
