package xbar

import (
	"fmt"
	"sync"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// fallbackFonts are core X fonts tried when the configured one is missing.
var fallbackFonts = []string{"fixed", "9x15", "8x13", "6x13"}

// maxTextChunk is the longest string one ImageText16 request accepts.
const maxTextChunk = 255

// surface draws into one bar window with a GC and a core font.
type surface struct {
	conn    *xgb.Conn
	win     xproto.Window
	gc      xproto.Gcontext
	font    xproto.Font
	height  int
	ascent  int
	descent int
	cursors cursorSet

	mu     sync.Mutex
	fg, bg bar.Color
	cursor bar.Cursor
	freed  bool
}

var _ bar.Drawer = (*surface)(nil)

func newSurface(conn *xgb.Conn, win xproto.Window, s bar.Settings, cursors cursorSet) (*surface, error) {
	font, name, err := openFont(conn, s.Font)
	if err != nil {
		return nil, err
	}

	info, err := xproto.QueryFont(conn, xproto.Fontable(font)).Reply()
	if err != nil {
		xproto.CloseFont(conn, font)
		return nil, fmt.Errorf("query font %q: %w", name, err)
	}

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		xproto.CloseFont(conn, font)
		return nil, fmt.Errorf("allocate gc: %w", err)
	}
	fg, bg := s.Foreground(), s.Background
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(win),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{
			uint32(fg),
			uint32(bg),
			uint32(font),
			0, // graphics_exposures=false
		},
	).Check()
	if err != nil {
		xproto.CloseFont(conn, font)
		return nil, fmt.Errorf("create gc: %w", err)
	}

	return &surface{
		conn:    conn,
		win:     win,
		gc:      gc,
		font:    font,
		height:  s.Height,
		ascent:  int(info.FontAscent),
		descent: int(info.FontDescent),
		cursors: cursors,
		fg:      fg,
		bg:      bg,
		cursor:  bar.CursorDefault,
	}, nil
}

// openFont opens the configured font or the first available fallback.
func openFont(conn *xgb.Conn, preferred string) (xproto.Font, string, error) {
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, "", fmt.Errorf("allocate font id: %w", err)
	}

	names := fallbackFonts
	if preferred != "" {
		names = append([]string{preferred}, fallbackFonts...)
	}
	var lastErr error
	for _, name := range names {
		lastErr = xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check()
		if lastErr == nil {
			return font, name, nil
		}
	}
	return 0, "", fmt.Errorf("no usable font (tried %v): %w", names, lastErr)
}

// Measure returns the pixel width of text in the bar font.
func (s *surface) Measure(text string) (int, error) {
	if text == "" {
		return 0, nil
	}
	chars := toChar2b(text)
	reply, err := xproto.QueryTextExtents(s.conn, xproto.Fontable(s.font), chars, uint16(len(chars))).Reply()
	if err != nil {
		return 0, fmt.Errorf("query text extents: %w", err)
	}
	return int(reply.OverallWidth), nil
}

func (s *surface) SetForeground(c bar.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fg == c {
		return
	}
	s.fg = c
	xproto.ChangeGC(s.conn, s.gc, xproto.GcForeground, []uint32{uint32(c)})
}

func (s *surface) SetBackground(c bar.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bg == c {
		return
	}
	s.bg = c
	xproto.ChangeGC(s.conn, s.gc, xproto.GcBackground, []uint32{uint32(c)})
}

// DrawText draws text with its cell background, vertically centered on
// the bar. y is an offset from the top of the bar.
func (s *surface) DrawText(text string, x, y int) error {
	chars := toChar2b(text)
	baseline := int16(y + baselineY(s.height, s.ascent, s.descent))

	s.mu.Lock()
	defer s.mu.Unlock()
	chunks := chunkChars(chars, maxTextChunk)
	for i, chunk := range chunks {
		err := xproto.ImageText16Checked(s.conn, byte(len(chunk)), xproto.Drawable(s.win), s.gc,
			int16(x), baseline, chunk).Check()
		if err != nil {
			return fmt.Errorf("draw text: %w", err)
		}
		if i == len(chunks)-1 {
			break
		}
		reply, err := xproto.QueryTextExtents(s.conn, xproto.Fontable(s.font), chunk, uint16(len(chunk))).Reply()
		if err != nil {
			return fmt.Errorf("query text extents: %w", err)
		}
		x += int(reply.OverallWidth)
	}
	return nil
}

// FillRect fills a rectangle and restores the text foreground.
func (s *surface) FillRect(x, y, w, h int, c bar.Color) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	xproto.ChangeGC(s.conn, s.gc, xproto.GcForeground, []uint32{uint32(c)})
	err := xproto.PolyFillRectangleChecked(s.conn, xproto.Drawable(s.win), s.gc, []xproto.Rectangle{{
		X:      int16(x),
		Y:      int16(y),
		Width:  uint16(w),
		Height: uint16(h),
	}}).Check()
	xproto.ChangeGC(s.conn, s.gc, xproto.GcForeground, []uint32{uint32(s.fg)})
	if err != nil {
		return fmt.Errorf("fill rect: %w", err)
	}
	return nil
}

// SetCursor switches the window cursor. Unchanged shapes cost nothing.
func (s *surface) SetCursor(c bar.Cursor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor == c {
		return nil
	}
	id := s.cursors.get(c)
	if id == 0 {
		return nil
	}
	err := xproto.ChangeWindowAttributesChecked(s.conn, s.win, xproto.CwCursor, []uint32{uint32(id)}).Check()
	if err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	s.cursor = c
	return nil
}

func (s *surface) free() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.freed {
		return
	}
	s.freed = true
	xproto.FreeGC(s.conn, s.gc)
	xproto.CloseFont(s.conn, s.font)
}

// baselineY centers a line of the given metrics in a bar of height h.
func baselineY(h, ascent, descent int) int {
	pad := (h - ascent - descent) / 2
	if pad < 0 {
		pad = 0
	}
	return pad + ascent
}

// toChar2b encodes text as UCS-2 for the 16-bit text requests. Runes
// outside the basic plane become '?'.
func toChar2b(text string) []xproto.Char2b {
	out := make([]xproto.Char2b, 0, len(text))
	for _, r := range text {
		if r > 0xFFFF {
			r = '?'
		}
		out = append(out, xproto.Char2b{Byte1: byte(r >> 8), Byte2: byte(r)})
	}
	return out
}

func chunkChars(chars []xproto.Char2b, n int) [][]xproto.Char2b {
	var out [][]xproto.Char2b
	for len(chars) > n {
		out = append(out, chars[:n])
		chars = chars[n:]
	}
	if len(chars) > 0 {
		out = append(out, chars)
	}
	return out
}
