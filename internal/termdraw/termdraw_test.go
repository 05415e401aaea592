package termdraw

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/platform"
)

type static struct{ texts []bar.Text }

func (s static) Render(bar.Context) []bar.Text { return s.texts }
func (s static) Clickable() bool               { return true }
func (s static) OnClick(platform.Display, int) {}

func TestCanvas_DrawAndFill(t *testing.T) {
	c := NewCanvas(10, 0x000000)
	c.SetForeground(0xffffff)
	c.SetBackground(0x112233)
	if err := c.DrawText("hello world", 2, 0); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	if got := c.Plain(); got != "  hello wo" {
		t.Fatalf("plain = %q", got)
	}
	if c.Background(2) != 0x112233 || c.Background(0) != 0 {
		t.Fatalf("backgrounds = %#x %#x", c.Background(2), c.Background(0))
	}

	if err := c.FillRect(4, 0, 3, 20, 0x445566); err != nil {
		t.Fatalf("FillRect: %v", err)
	}
	if got := c.Plain(); got != "  he    wo" {
		t.Fatalf("after fill = %q", got)
	}
	if c.Background(5) != 0x445566 {
		t.Fatalf("fill background = %#x", c.Background(5))
	}
}

func TestCanvas_WideRunes(t *testing.T) {
	c := NewCanvas(6, 0)
	if w, _ := c.Measure("日本"); w != 4 {
		t.Fatalf("measure = %d, want 4", w)
	}
	if err := c.DrawText("日本語", 0, 0); err != nil {
		t.Fatalf("DrawText: %v", err)
	}
	if got := c.Plain(); got != "日本語" {
		t.Fatalf("plain = %q", got)
	}

	c = NewCanvas(5, 0)
	_ = c.DrawText("日本語", 0, 0)
	if got := c.Plain(); got != "日本 " {
		t.Fatalf("clipped = %q", got)
	}
}

func TestCanvas_RenderKeepsText(t *testing.T) {
	c := NewCanvas(8, 0x101010)
	c.SetForeground(0xffffff)
	c.SetBackground(0x101010)
	_ = c.DrawText("bar", 0, 0)
	if out := c.Render(); !strings.Contains(out, "bar") {
		t.Fatalf("render lost text: %q", out)
	}
}

func TestSystem_CompositorFrame(t *testing.T) {
	sys := NewSystem()
	settings := bar.Settings{Height: 1, Background: 0x101010, Font: "term"}
	comp := bar.New(bar.Options{
		Windows:  sys,
		Settings: settings,
		Components: bar.Components{
			Left:   []bar.Component{static{[]bar.Text{bar.Plain("L")}}},
			Center: []bar.Component{static{[]bar.Text{bar.Plain("mid")}}},
			Right:  []bar.Component{static{[]bar.Text{bar.Plain("R")}}},
		},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:    func() time.Time { return time.Unix(0, 0) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- comp.Run(ctx) }()

	display := platform.Display{ID: 1, Name: "term", Usable: platform.Rect{Width: 11}}
	comp.Post(bar.Create{Display: display})
	comp.Post(bar.RedrawAll{})
	if err := comp.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	w, ok := sys.ForDisplay(1)
	if !ok {
		t.Fatalf("no window for display 1")
	}
	// center starts at 11/2 - 3/2 = 4
	if got := w.Canvas().Plain(); got != "L   mid   R" {
		t.Fatalf("frame = %q", got)
	}

	comp.Post(bar.PointerMoved{Window: w.ID(), X: 5, Display: display})
	if err := comp.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if w.Canvas().Cursor() != bar.CursorClickable {
		t.Fatalf("cursor = %v", w.Canvas().Cursor())
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sys.Len() != 0 {
		t.Fatalf("windows left after shutdown: %d", sys.Len())
	}
}
