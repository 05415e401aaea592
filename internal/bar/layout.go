package bar

import "fmt"

// Span is a half-open horizontal range [Left, Right).
type Span struct {
	Left  int `json:"left"`
	Right int `json:"right"`
}

// Width returns Right - Left.
func (s Span) Width() int {
	return s.Right - s.Left
}

// Item is one component's rendered instance within a section. Left and
// Right are section-relative; Fragments are item-relative.
type Item struct {
	Left      int
	Right     int
	Texts     []Text
	Fragments []Span
	Component Component
}

// Section is the placed layout of one alignment region.
type Section struct {
	Left  int
	Right int
	Items []Item
}

// Width returns the placed width of the section.
func (s Section) Width() int {
	return s.Right - s.Left
}

// Alignment names a section of the bar.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// Frame is the full layout of a bar.
type Frame struct {
	Width  int
	Left   Section
	Center Section
	Right  Section
}

// Section returns the section for an alignment.
func (f *Frame) Section(a Alignment) *Section {
	switch a {
	case AlignCenter:
		return &f.Center
	case AlignRight:
		return &f.Right
	default:
		return &f.Left
	}
}

var alignments = [...]Alignment{AlignLeft, AlignCenter, AlignRight}

// Layout renders components in order and measures every fragment. The
// returned section is unplaced: Left is 0 and Right is the total width.
// Empty fragments are measured like any other text.
func Layout(components []Component, ctx Context, m Measurer) (Section, error) {
	var section Section
	offset := 0

	for _, c := range components {
		texts := c.Render(ctx)
		item := Item{
			Left:      offset,
			Texts:     texts,
			Fragments: make([]Span, 0, len(texts)),
			Component: c,
		}

		local := 0
		for _, t := range texts {
			w, err := m.Measure(t.Text)
			if err != nil {
				return Section{}, fmt.Errorf("measure %q: %w", t.Text, err)
			}
			item.Fragments = append(item.Fragments, Span{Left: local, Right: local + w})
			local += w
		}

		offset += local
		item.Right = offset
		section.Items = append(section.Items, item)
	}

	section.Right = offset
	return section, nil
}

// Place positions a raw section inside a bar of the given working width.
// Item bounds stay section-relative.
func Place(s Section, a Alignment, width int) Section {
	switch a {
	case AlignCenter:
		s.Left = width/2 - s.Right/2
		s.Right += s.Left
	case AlignRight:
		s.Left = width - s.Right
		s.Right += s.Left
	}
	return s
}

// BuildFrame lays out and places all three sections.
func BuildFrame(c Components, ctx Context, m Measurer) (Frame, error) {
	width := ctx.Display.WorkingAreaWidth()
	frame := Frame{Width: width}

	lists := [...][]Component{c.Left, c.Center, c.Right}
	for i, a := range alignments {
		raw, err := Layout(lists[i], ctx, m)
		if err != nil {
			return Frame{}, fmt.Errorf("%s section: %w", a, err)
		}
		*frame.Section(a) = Place(raw, a, width)
	}
	return frame, nil
}
