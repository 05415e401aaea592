package bar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/1broseidon/tilebar/internal/metrics"
	"github.com/1broseidon/tilebar/internal/platform"
)

var (
	// ErrDuplicateBar is returned when a display already has a bar.
	ErrDuplicateBar = errors.New("bar already exists for display")
	// ErrStopped is returned by queries made after the loop has exited.
	ErrStopped = errors.New("compositor stopped")
)

const defaultQueueSize = 64

// Bar is the per-display window and the last committed frame.
type Bar struct {
	window  Window
	display platform.Display
	frame   Frame
	full    bool
	frames  uint64
}

// Window returns the bar's window handle.
func (b *Bar) Window() Window { return b.window }

// Display returns the display the bar belongs to.
func (b *Bar) Display() platform.Display { return b.display }

// Frame returns the last committed frame.
func (b *Bar) Frame() Frame { return b.frame }

// Options configures a Compositor.
type Options struct {
	Windows    WindowSystem
	Workspace  WorkspaceSource
	Settings   Settings
	Components Components
	Logger     *slog.Logger
	Now        func() time.Time
	QueueSize  int
}

// Compositor owns the bar registry. All mutation happens on the goroutine
// running Run; everything else talks to it through Post.
type Compositor struct {
	windows    WindowSystem
	workspace  WorkspaceSource
	settings   Settings
	components Components
	logger     *slog.Logger
	now        func() time.Time

	bars          []*Bar
	count         atomic.Int64
	lastWorkspace platform.Workspace

	events chan Event
	done   chan struct{}
}

// New creates a compositor. Run must be called to process events.
func New(opts Options) *Compositor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	size := opts.QueueSize
	if size <= 0 {
		size = defaultQueueSize
	}

	return &Compositor{
		windows:    opts.Windows,
		workspace:  opts.Workspace,
		settings:   opts.Settings,
		components: opts.Components,
		logger:     logger,
		now:        now,
		events:     make(chan Event, size),
		done:       make(chan struct{}),
	}
}

// Post enqueues an event. Events are processed in arrival order. Post
// drops the event once Run has returned.
func (c *Compositor) Post(ev Event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// Bars returns the number of registered bars. Safe from any goroutine.
func (c *Compositor) Bars() int {
	return int(c.count.Load())
}

// Status asks the loop for a registry snapshot.
func (c *Compositor) Status(ctx context.Context) (Status, error) {
	q := statusQuery{reply: make(chan Status, 1)}
	select {
	case c.events <- q:
	case <-c.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}

	select {
	case s := <-q.reply:
		return s, nil
	case <-c.done:
		return Status{}, ErrStopped
	case <-ctx.Done():
		return Status{}, ctx.Err()
	}
}

// Sync returns once every event posted before it has been processed.
func (c *Compositor) Sync(ctx context.Context) error {
	_, err := c.Status(ctx)
	return err
}

// Run processes events until ctx is cancelled, then destroys every bar.
func (c *Compositor) Run(ctx context.Context) error {
	defer close(c.done)

	c.logger.Info("compositor started")

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			c.logger.Info("compositor stopped")
			return nil
		case ev := <-c.events:
			c.handle(ev)
		}
	}
}

func (c *Compositor) handle(ev Event) {
	// A misbehaving component must not take the loop down.
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("compositor panic recovered", "event", ev.Kind(), "error", err)
		}
	}()

	metrics.Events.WithLabelValues(ev.Kind()).Inc()

	switch ev := ev.(type) {
	case Create:
		if err := c.create(ev.Display); err != nil {
			c.logger.Error("bar creation rejected", "display", ev.Display.ID, "error", err)
		}
	case Close:
		c.remove(ev.Window)
	case Clicked:
		if b := c.lookup(ev.Window); b != nil {
			b.frame.Click(ev.X, ev.Display)
		}
	case PointerMoved:
		if b := c.lookup(ev.Window); b != nil {
			if err := b.window.Surface().SetCursor(b.frame.CursorAt(ev.X)); err != nil {
				c.logger.Debug("set cursor failed", "window", ev.Window, "error", err)
			}
		}
	case DrawRequested:
		if b := c.lookup(ev.Window); b != nil {
			c.drawLogged(b)
		}
	case RedrawAll:
		c.redrawAll()
	case UpdateComponents:
		c.update(ev)
	case statusQuery:
		ev.reply <- c.status()
	default:
		c.logger.Warn("unknown compositor event", "kind", ev.Kind())
	}
}

func (c *Compositor) create(d platform.Display) error {
	for _, b := range c.bars {
		if b.display.ID == d.ID {
			return fmt.Errorf("display %d: %w", d.ID, ErrDuplicateBar)
		}
	}
	b, err := c.open(d)
	if err != nil {
		return err
	}
	c.bars = append(c.bars, b)
	c.updateCount()
	return nil
}

// open creates the window for a display without registering it.
func (c *Compositor) open(d platform.Display) (*Bar, error) {
	if c.windows == nil {
		return nil, fmt.Errorf("display %d: no window system", d.ID)
	}
	w, err := c.windows.CreateWindow(WindowSpec{Display: d, Settings: c.settings})
	if err != nil {
		return nil, fmt.Errorf("create window for display %d: %w", d.ID, err)
	}
	c.logger.Info("bar created", "display", d.ID, "window", w.ID(), "width", d.WorkingAreaWidth())
	return &Bar{window: w, display: d, full: true}, nil
}

func (c *Compositor) remove(id platform.WindowID) {
	for i, b := range c.bars {
		if b.window.ID() == id {
			c.bars = append(c.bars[:i], c.bars[i+1:]...)
			c.updateCount()
			c.logger.Info("bar closed", "display", b.display.ID, "window", id)
			return
		}
	}
}

func (c *Compositor) lookup(id platform.WindowID) *Bar {
	for _, b := range c.bars {
		if b.window.ID() == id {
			return b
		}
	}
	return nil
}

func (c *Compositor) updateCount() {
	c.count.Store(int64(len(c.bars)))
	metrics.Bars.Set(float64(len(c.bars)))
}

func (c *Compositor) redrawAll() {
	for _, b := range c.bars {
		c.drawLogged(b)
	}
}

func (c *Compositor) drawLogged(b *Bar) {
	if err := c.draw(b); err != nil {
		metrics.DrawFailures.Inc()
		c.logger.Error("draw failed, frame discarded", "window", b.window.ID(), "display", b.display.ID, "error", err)
	}
}

// draw lays out and repaints one bar. The baseline only advances when the
// whole frame was drawn.
func (c *Compositor) draw(b *Bar) error {
	ctx := Context{
		Display:   b.display,
		Workspace: c.snapshotWorkspace(),
		Settings:  c.settings,
		Now:       c.now(),
	}
	surface := b.window.Surface()

	next, err := BuildFrame(c.components, ctx, surface)
	if err != nil {
		return err
	}

	prev := b.frame
	full := b.full || prev.Width != next.Width
	// Pixels of a frame that fails or panics past here are not in the
	// baseline; keep the bar dirty until a frame commits.
	b.full = true
	if full {
		if err := surface.FillRect(0, 0, next.Width, c.settings.Height, c.settings.Background); err != nil {
			return fmt.Errorf("clear bar: %w", err)
		}
		prev = Frame{Width: next.Width}
	}

	cleared, err := Repaint(surface, prev, next, c.settings)
	if err != nil {
		return err
	}

	b.frame = next
	b.full = false
	b.frames++
	metrics.Frames.Inc()
	metrics.ClearRects.Add(float64(len(cleared)))
	return nil
}

func (c *Compositor) snapshotWorkspace() platform.Workspace {
	if c.workspace == nil {
		return c.lastWorkspace
	}
	ws, err := c.workspace.Workspace()
	if err != nil {
		c.logger.Debug("workspace snapshot failed, reusing last", "error", err)
		return c.lastWorkspace
	}
	c.lastWorkspace = ws
	return ws
}

// update swaps settings and components. Bars are recreated when the window
// itself changes; otherwise they are fully repainted.
func (c *Compositor) update(ev UpdateComponents) {
	old := c.settings
	c.settings = ev.Settings
	c.components = ev.Components

	if !old.sameWindow(ev.Settings) {
		// Bars() reports the old registry until the new one is built.
		fresh := make([]*Bar, 0, len(c.bars))
		for _, b := range c.bars {
			if err := b.window.Destroy(); err != nil {
				c.logger.Warn("destroy bar window failed", "window", b.window.ID(), "error", err)
			}
			nb, err := c.open(b.display)
			if err != nil {
				c.logger.Error("bar recreation failed", "display", b.display.ID, "error", err)
				continue
			}
			fresh = append(fresh, nb)
		}
		c.bars = fresh
		c.updateCount()
	}

	for _, b := range c.bars {
		b.full = true
	}
	c.logger.Info("components updated", "bars", len(c.bars))
	c.redrawAll()
}

func (c *Compositor) status() Status {
	s := Status{Bars: make([]BarStatus, 0, len(c.bars))}
	for _, b := range c.bars {
		s.Bars = append(s.Bars, BarStatus{
			Window:  b.window.ID(),
			Display: b.display.ID,
			Name:    b.display.Name,
			Width:   b.frame.Width,
			Left:    Span{Left: b.frame.Left.Left, Right: b.frame.Left.Right},
			Center:  Span{Left: b.frame.Center.Left, Right: b.frame.Center.Right},
			Right:   Span{Left: b.frame.Right.Left, Right: b.frame.Right.Right},
			Frames:  b.frames,
		})
	}
	return s
}

func (c *Compositor) shutdown() {
	for _, b := range c.bars {
		if err := b.window.Destroy(); err != nil {
			c.logger.Warn("destroy bar window failed", "window", b.window.ID(), "error", err)
		}
	}
	c.bars = nil
	c.updateCount()
}
