package bar

import "github.com/1broseidon/tilebar/internal/platform"

// Hit identifies the item under the pointer.
type Hit struct {
	Section Alignment
	Index   int
	Origin  int // absolute x of the item's left edge
	Item    *Item
}

// Locate returns the first item whose closed interval contains the bar
// x coordinate, scanning sections left, center, right.
func (f *Frame) Locate(x int) (Hit, bool) {
	for _, a := range alignments {
		section := f.Section(a)
		for i := range section.Items {
			item := &section.Items[i]
			left := section.Left + item.Left
			right := section.Left + item.Right
			if x >= left && x <= right {
				return Hit{Section: a, Index: i, Origin: left, Item: item}, true
			}
		}
	}
	return Hit{}, false
}

// Fragment returns the fragment index of the hit item containing x.
// Fragment ranges are half-open except the last non-empty one, which also
// owns the item's right edge.
func (h Hit) Fragment(x int) (int, bool) {
	local := x - h.Origin
	edge := edgeFragment(h.Item.Fragments)
	for i, frag := range h.Item.Fragments {
		if local >= frag.Left && (local < frag.Right || (i == edge && local == frag.Right)) {
			return i, true
		}
	}
	return 0, false
}

// edgeFragment returns the last fragment with a width, or the last
// fragment when all are empty.
func edgeFragment(frags []Span) int {
	for i := len(frags) - 1; i >= 0; i-- {
		if frags[i].Right > frags[i].Left {
			return i
		}
	}
	return len(frags) - 1
}

// Click dispatches a click at x to the clickable item under it. It
// reports whether a handler ran.
func (f *Frame) Click(x int, d platform.Display) bool {
	hit, ok := f.Locate(x)
	if !ok || hit.Item.Component == nil || !hit.Item.Component.Clickable() {
		return false
	}
	idx, ok := hit.Fragment(x)
	if !ok {
		return false
	}
	hit.Item.Component.OnClick(d, idx)
	return true
}

// CursorAt returns the cursor to show with the pointer at x.
func (f *Frame) CursorAt(x int) Cursor {
	hit, ok := f.Locate(x)
	if ok && hit.Item.Component != nil && hit.Item.Component.Clickable() {
		return CursorClickable
	}
	return CursorDefault
}
