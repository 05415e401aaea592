package bar

import (
	"errors"
	"testing"
)

func scenarioComponents() (*fakeComponent, *fakeComponent, *fakeComponent) {
	return fake(false, "Mon0"), fake(false, "09:41"), fake(true, "App", "Run")
}

func TestLayout_ScenarioBounds(t *testing.T) {
	a, b, c := scenarioComponents()
	d := &recordingDrawer{}

	s, err := Layout([]Component{a, b, c}, Context{}, d)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}

	want := []Span{{0, 40}, {40, 90}, {90, 150}}
	if len(s.Items) != len(want) {
		t.Fatalf("got %d items, want %d", len(s.Items), len(want))
	}
	for i, w := range want {
		if s.Items[i].Left != w.Left || s.Items[i].Right != w.Right {
			t.Fatalf("item %d = (%d,%d), want (%d,%d)", i, s.Items[i].Left, s.Items[i].Right, w.Left, w.Right)
		}
	}
	if s.Left != 0 || s.Right != 150 {
		t.Fatalf("section = (%d,%d), want (0,150)", s.Left, s.Right)
	}

	frags := s.Items[2].Fragments
	if len(frags) != 2 || frags[0] != (Span{0, 30}) || frags[1] != (Span{30, 60}) {
		t.Fatalf("fragments = %+v", frags)
	}
	if s.Items[2].Component != Component(c) {
		t.Fatalf("item does not reference its component")
	}
}

func TestLayout_ItemsContiguousInOrder(t *testing.T) {
	lists := [][]Component{
		nil,
		{fake(false, "x")},
		{fake(false, "a", "bb"), fake(false), fake(true, "cccc"), fake(false, "", "d")},
		{fake(false, "one"), fake(false, "two"), fake(false, "three"), fake(false, "four")},
	}
	d := &recordingDrawer{empty: 3}

	for _, list := range lists {
		s, err := Layout(list, Context{}, d)
		if err != nil {
			t.Fatalf("Layout: %v", err)
		}
		if len(s.Items) != len(list) {
			t.Fatalf("got %d items for %d components", len(s.Items), len(list))
		}
		prev := 0
		for i, item := range s.Items {
			if item.Left != prev {
				t.Fatalf("item %d starts at %d, previous ended at %d", i, item.Left, prev)
			}
			if item.Right < item.Left {
				t.Fatalf("item %d has negative width", i)
			}
			if item.Component != list[i] {
				t.Fatalf("item %d out of component order", i)
			}
			prev = item.Right
		}
		if s.Right != prev {
			t.Fatalf("section right = %d, want %d", s.Right, prev)
		}
	}
}

func TestLayout_EmptyFragmentKeepsMeasuredWidth(t *testing.T) {
	d := &recordingDrawer{empty: 6}
	s, err := Layout([]Component{fake(false, "ab", "", "c")}, Context{}, d)
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	frags := s.Items[0].Fragments
	if frags[1] != (Span{20, 26}) || frags[2] != (Span{26, 36}) {
		t.Fatalf("fragments = %+v", frags)
	}
}

func TestLayout_MeasureFailure(t *testing.T) {
	d := &recordingDrawer{failMeasure: true}
	_, err := Layout([]Component{fake(false, "x")}, Context{}, d)
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want errBoom", err)
	}
}

func TestPlace_CenterMidpoint(t *testing.T) {
	for _, width := range []int{0, 1, 99, 100, 1280, 1921} {
		for _, content := range []int{0, 1, 37, 40, 150, 333} {
			s := Place(Section{Right: content}, AlignCenter, width)
			if s.Width() != content {
				t.Fatalf("W=%d C=%d: width changed to %d", width, content, s.Width())
			}
			if got := s.Left + (s.Right-s.Left)/2; got != width/2 {
				t.Fatalf("W=%d C=%d: midpoint %d, want %d", width, content, got, width/2)
			}
		}
	}
}

func TestPlace_RightEdgeIsWorkingWidth(t *testing.T) {
	for _, width := range []int{0, 77, 1280, 3840} {
		for _, content := range []int{0, 10, 150} {
			s := Place(Section{Right: content}, AlignRight, width)
			if s.Right != width {
				t.Fatalf("W=%d C=%d: right = %d", width, content, s.Right)
			}
			if s.Left != width-content {
				t.Fatalf("W=%d C=%d: left = %d", width, content, s.Left)
			}
		}
	}
}

func TestPlace_LeftUnchanged(t *testing.T) {
	s := Place(Section{Right: 90}, AlignLeft, 1000)
	if s.Left != 0 || s.Right != 90 {
		t.Fatalf("left section = (%d,%d)", s.Left, s.Right)
	}
}

func TestBuildFrame_PlacesAllSections(t *testing.T) {
	d := &recordingDrawer{}
	c := Components{
		Left:   []Component{fake(false, "Mon0")},
		Center: []Component{fake(false, "09:41")},
		Right:  []Component{fake(true, "App", "Run")},
	}

	f, err := BuildFrame(c, Context{Display: testDisplay(0, 1000)}, d)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if f.Width != 1000 {
		t.Fatalf("frame width = %d", f.Width)
	}
	if f.Left.Left != 0 || f.Left.Right != 40 {
		t.Fatalf("left = (%d,%d)", f.Left.Left, f.Left.Right)
	}
	if f.Center.Left != 475 || f.Center.Right != 525 {
		t.Fatalf("center = (%d,%d)", f.Center.Left, f.Center.Right)
	}
	if f.Right.Left != 940 || f.Right.Right != 1000 {
		t.Fatalf("right = (%d,%d)", f.Right.Left, f.Right.Right)
	}
}
