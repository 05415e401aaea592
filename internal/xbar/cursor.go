package xbar

import (
	"fmt"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// Glyph indices in the core "cursor" font.
const (
	glyphLeftPtr = 68
	glyphHand2   = 60
)

// cursorSet holds the shared pointer cursors. Zero ids mean unavailable.
type cursorSet struct {
	normal xproto.Cursor
	hand   xproto.Cursor
}

func (c cursorSet) get(cur bar.Cursor) xproto.Cursor {
	if cur == bar.CursorClickable {
		return c.hand
	}
	return c.normal
}

func openCursors(conn *xgb.Conn) (cursorSet, error) {
	font, err := xproto.NewFontId(conn)
	if err != nil {
		return cursorSet{}, fmt.Errorf("allocate cursor font id: %w", err)
	}
	const name = "cursor"
	if err := xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check(); err != nil {
		return cursorSet{}, fmt.Errorf("open cursor font: %w", err)
	}
	defer xproto.CloseFont(conn, font)

	normal, err := glyphCursor(conn, font, glyphLeftPtr)
	if err != nil {
		return cursorSet{}, err
	}
	hand, err := glyphCursor(conn, font, glyphHand2)
	if err != nil {
		xproto.FreeCursor(conn, normal)
		return cursorSet{}, err
	}
	return cursorSet{normal: normal, hand: hand}, nil
}

// glyphCursor creates a black-on-white cursor; the mask glyph follows the
// source glyph in the cursor font.
func glyphCursor(conn *xgb.Conn, font xproto.Font, glyph uint16) (xproto.Cursor, error) {
	id, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, fmt.Errorf("allocate cursor id: %w", err)
	}
	err = xproto.CreateGlyphCursorChecked(conn, id, font, font, glyph, glyph+1,
		0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
	if err != nil {
		return 0, fmt.Errorf("create cursor %d: %w", glyph, err)
	}
	return id, nil
}
