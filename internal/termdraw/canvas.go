// Package termdraw is a terminal-backed bar surface. One column is one
// horizontal bar unit, so layout and repaint run unchanged and the result
// can be printed.
package termdraw

import (
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type cell struct {
	r      rune
	fg, bg bar.Color
	// cont marks the trailing column of a double-width rune.
	cont bool
}

// Canvas is a single-row cell buffer implementing bar.Drawer.
type Canvas struct {
	mu     sync.Mutex
	cells  []cell
	fg, bg bar.Color
	cursor bar.Cursor
}

// NewCanvas creates a canvas of width columns filled with bg.
func NewCanvas(width int, bg bar.Color) *Canvas {
	c := &Canvas{cells: make([]cell, width), bg: bg}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', bg: bg}
	}
	return c
}

func (c *Canvas) Width() int { return len(c.cells) }

// Measure returns the display width of text in columns.
func (c *Canvas) Measure(text string) (int, error) {
	return runewidth.StringWidth(text), nil
}

func (c *Canvas) SetForeground(col bar.Color) {
	c.mu.Lock()
	c.fg = col
	c.mu.Unlock()
}

func (c *Canvas) SetBackground(col bar.Color) {
	c.mu.Lock()
	c.bg = col
	c.mu.Unlock()
}

// DrawText writes text starting at column x. Text past the right edge is
// clipped; y is ignored on a single-row canvas.
func (c *Canvas) DrawText(text string, x, _ int) error {
	if x < 0 {
		return fmt.Errorf("draw text at negative column %d", x)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	col := x
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > len(c.cells) {
			break
		}
		c.cells[col] = cell{r: r, fg: c.fg, bg: c.bg}
		if w == 2 {
			c.cells[col+1] = cell{fg: c.fg, bg: c.bg, cont: true}
		}
		col += w
	}
	return nil
}

// FillRect paints columns [x, x+w) with blanks in col.
func (c *Canvas) FillRect(x, _, w, _ int, col bar.Color) error {
	if w < 0 {
		return fmt.Errorf("fill with negative width %d", w)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := max(x, 0); i < x+w && i < len(c.cells); i++ {
		c.cells[i] = cell{r: ' ', bg: col}
	}
	return nil
}

func (c *Canvas) SetCursor(cur bar.Cursor) error {
	c.mu.Lock()
	c.cursor = cur
	c.mu.Unlock()
	return nil
}

// Cursor returns the last cursor shape set.
func (c *Canvas) Cursor() bar.Cursor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor
}

// Plain returns the row text without colors.
func (c *Canvas) Plain() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for _, cl := range c.cells {
		if !cl.cont {
			b.WriteRune(cl.r)
		}
	}
	return b.String()
}

// Background returns the background color at column x.
func (c *Canvas) Background(x int) bar.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	if x < 0 || x >= len(c.cells) {
		return 0
	}
	return c.cells[x].bg
}

// Render returns the row styled with lipgloss, one style per run of
// equally colored cells.
func (c *Canvas) Render() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out strings.Builder
	var run strings.Builder
	flush := func(fg, bg bar.Color) {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(hex(fg))).
			Background(lipgloss.Color(hex(bg)))
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	var fg, bg bar.Color
	for i, cl := range c.cells {
		if cl.cont {
			continue
		}
		if i > 0 && (cl.fg != fg || cl.bg != bg) {
			flush(fg, bg)
		}
		fg, bg = cl.fg, cl.bg
		run.WriteRune(cl.r)
	}
	flush(fg, bg)
	return out.String()
}

func hex(c bar.Color) string {
	return fmt.Sprintf("#%06x", uint32(c))
}
