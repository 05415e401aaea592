// Package geometry places bar windows inside a display's working area.
package geometry

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilebar/internal/platform"
)

// Position selects the screen edge a bar is anchored to.
type Position string

const (
	Top    Position = "top"
	Bottom Position = "bottom"
)

// ParsePosition normalizes a configured position; empty means Top.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToLower(strings.TrimSpace(s))) {
	case "", Top:
		return Top, nil
	case Bottom:
		return Bottom, nil
	default:
		return "", fmt.Errorf("invalid position %q (want top or bottom)", s)
	}
}

// BarRect returns the window rectangle for a bar of the given height.
// The bar spans the full working-area width at the chosen edge.
func BarRect(d platform.Display, height int, pos Position) platform.Rect {
	area := d.Usable
	if area.Width <= 0 || area.Height <= 0 {
		area = d.Bounds
	}
	if height > area.Height {
		height = area.Height
	}

	r := platform.Rect{
		X:      area.X,
		Y:      area.Y,
		Width:  area.Width,
		Height: height,
	}
	if pos == Bottom {
		r.Y = area.Y + area.Height - height
	}
	return r
}

// Strut is a _NET_WM_STRUT_PARTIAL reservation. Top and Bottom are
// measured from the root window edges; the start/end pairs are inclusive
// x ranges.
type Strut struct {
	Top          int
	Bottom       int
	TopStartX    int
	TopEndX      int
	BottomStartX int
	BottomEndX   int
}

// NewStrut reserves the space occupied by bar so tiled windows avoid it.
func NewStrut(bar platform.Rect, pos Position, rootHeight int) Strut {
	if bar.Width <= 0 || bar.Height <= 0 {
		return Strut{}
	}
	startX, endX := bar.X, bar.X+bar.Width-1
	if pos == Bottom {
		return Strut{
			Bottom:       max(rootHeight-bar.Y, 0),
			BottomStartX: startX,
			BottomEndX:   endX,
		}
	}
	return Strut{
		Top:       bar.Y + bar.Height,
		TopStartX: startX,
		TopEndX:   endX,
	}
}
