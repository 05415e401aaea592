package bar

import (
	"errors"
	"testing"
)

func leftOnly(width int, items ...Span) Frame {
	s := Section{}
	for _, it := range items {
		s.Items = append(s.Items, Item{Left: it.Left, Right: it.Right})
		s.Right = it.Right
	}
	return Frame{Width: width, Left: s}
}

func TestRepaint_LeftShrinkClearsExactRange(t *testing.T) {
	d := &recordingDrawer{}
	prev := leftOnly(1000, Span{0, 40}, Span{40, 90}, Span{90, 150})
	next := leftOnly(1000, Span{0, 40}, Span{40, 90})

	cleared, err := Repaint(d, prev, next, testSettings())
	if err != nil {
		t.Fatalf("Repaint: %v", err)
	}
	if len(cleared) != 1 || cleared[0] != (Span{90, 150}) {
		t.Fatalf("cleared = %+v, want [{90 150}]", cleared)
	}
	if d.ops[0].kind != "fill" || d.ops[0].x != 90 || d.ops[0].w != 60 || d.ops[0].color != 0x101010 {
		t.Fatalf("clear op = %+v", d.ops[0])
	}
}

func TestRepaint_GrowingSectionClearsNothing(t *testing.T) {
	d := &recordingDrawer{}
	prev := leftOnly(1000, Span{0, 90})
	next := leftOnly(1000, Span{0, 150})

	cleared, err := Repaint(d, prev, next, testSettings())
	if err != nil {
		t.Fatalf("Repaint: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("cleared = %+v, want none", cleared)
	}
}

func TestRepaint_RightAndCenterShrink(t *testing.T) {
	const width = 1000
	prev := Frame{
		Width:  width,
		Center: Place(Section{Right: 100}, AlignCenter, width),
		Right:  Place(Section{Right: 80}, AlignRight, width),
	}
	next := Frame{
		Width:  width,
		Center: Place(Section{Right: 41}, AlignCenter, width),
		Right:  Place(Section{Right: 30}, AlignRight, width),
	}

	cleared, err := Repaint(&recordingDrawer{}, prev, next, testSettings())
	if err != nil {
		t.Fatalf("Repaint: %v", err)
	}

	// center prev [450,550) next [480,521); right prev [920,1000) next [970,1000)
	want := []Span{{450, 480}, {521, 550}, {920, 970}}
	if len(cleared) != len(want) {
		t.Fatalf("cleared = %+v, want %+v", cleared, want)
	}
	for i := range want {
		if cleared[i] != want[i] {
			t.Fatalf("cleared[%d] = %+v, want %+v", i, cleared[i], want[i])
		}
	}
}

func TestRepaint_SecondIdenticalDrawClearsNothing(t *testing.T) {
	a, b, c := scenarioComponents()
	comps := Components{Left: []Component{a}, Center: []Component{b}, Right: []Component{c}}
	ctx := Context{Display: testDisplay(0, 800)}
	d := &recordingDrawer{}

	first, err := BuildFrame(comps, ctx, d)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if _, err := Repaint(d, Frame{Width: 800}, first, testSettings()); err != nil {
		t.Fatalf("Repaint: %v", err)
	}

	second, err := BuildFrame(comps, ctx, d)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	cleared, err := Repaint(d, first, second, testSettings())
	if err != nil {
		t.Fatalf("Repaint: %v", err)
	}
	if len(cleared) != 0 {
		t.Fatalf("second draw cleared %+v", cleared)
	}
}

func TestRepaint_ColorResolution(t *testing.T) {
	override := Colored("hi", 0x00ff00, 0x0000ff)
	comp := &fakeComponent{texts: []Text{Plain("ab"), override}}
	d := &recordingDrawer{}

	for _, light := range []bool{false, true} {
		d.reset()
		s := testSettings()
		s.LightTheme = light

		f, err := BuildFrame(Components{Left: []Component{comp}}, Context{Display: testDisplay(0, 500)}, d)
		if err != nil {
			t.Fatalf("BuildFrame: %v", err)
		}
		if _, err := Repaint(d, Frame{Width: 500}, f, s); err != nil {
			t.Fatalf("Repaint: %v", err)
		}

		texts := d.texts()
		if len(texts) != 2 {
			t.Fatalf("drew %d fragments, want 2", len(texts))
		}
		wantFg := Color(0xffffff)
		if light {
			wantFg = 0x333333
		}
		if texts[0].fg != wantFg || texts[0].color != 0x101010 || texts[0].x != 0 {
			t.Fatalf("default fragment = %+v", texts[0])
		}
		if texts[1].fg != 0x00ff00 || texts[1].color != 0x0000ff || texts[1].x != 20 {
			t.Fatalf("override fragment = %+v", texts[1])
		}
	}
}

func TestRepaint_SkipsEmptyFragmentsAndOffsetsBySection(t *testing.T) {
	d := &recordingDrawer{empty: 5}
	comps := Components{Right: []Component{fake(false, "", "xy")}}

	f, err := BuildFrame(comps, Context{Display: testDisplay(0, 300)}, d)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if _, err := Repaint(d, Frame{Width: 300}, f, testSettings()); err != nil {
		t.Fatalf("Repaint: %v", err)
	}

	texts := d.texts()
	if len(texts) != 1 {
		t.Fatalf("drew %d fragments, want 1", len(texts))
	}
	// right section [275,300), empty fragment occupies [0,5) locally
	if texts[0].text != "xy" || texts[0].x != 280 {
		t.Fatalf("fragment = %+v", texts[0])
	}
}

func TestRepaint_DrawFailureIsReturned(t *testing.T) {
	d := &recordingDrawer{failText: "bad"}
	f, err := BuildFrame(Components{Left: []Component{fake(false, "ok", "bad")}}, Context{Display: testDisplay(0, 300)}, d)
	if err != nil {
		t.Fatalf("BuildFrame: %v", err)
	}
	if _, err := Repaint(d, Frame{Width: 300}, f, testSettings()); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want errBoom", err)
	}
}
