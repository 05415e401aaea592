package geometry

import (
	"testing"

	"github.com/1broseidon/tilebar/internal/platform"
)

func TestBarRect_TopAndBottom(t *testing.T) {
	d := platform.Display{
		Bounds: platform.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024},
		Usable: platform.Rect{X: 1920, Y: 30, Width: 1280, Height: 994},
	}

	top := BarRect(d, 20, Top)
	if top != (platform.Rect{X: 1920, Y: 30, Width: 1280, Height: 20}) {
		t.Fatalf("top rect = %+v", top)
	}

	bottom := BarRect(d, 20, Bottom)
	if bottom != (platform.Rect{X: 1920, Y: 1004, Width: 1280, Height: 20}) {
		t.Fatalf("bottom rect = %+v", bottom)
	}
}

func TestBarRect_FallsBackToBoundsWithoutWorkArea(t *testing.T) {
	d := platform.Display{Bounds: platform.Rect{Width: 800, Height: 600}}
	r := BarRect(d, 24, Top)
	if r.Width != 800 || r.Height != 24 {
		t.Fatalf("rect = %+v", r)
	}
}

func TestNewStrut(t *testing.T) {
	bar := platform.Rect{X: 1920, Y: 1004, Width: 1280, Height: 20}
	s := NewStrut(bar, Bottom, 1024)
	if s.Bottom != 20 || s.BottomStartX != 1920 || s.BottomEndX != 3199 || s.Top != 0 {
		t.Fatalf("bottom strut = %+v", s)
	}

	s = NewStrut(platform.Rect{X: 0, Y: 30, Width: 1920, Height: 20}, Top, 1080)
	if s.Top != 50 || s.TopEndX != 1919 || s.Bottom != 0 {
		t.Fatalf("top strut = %+v", s)
	}
}

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in      string
		want    Position
		wantErr bool
	}{
		{"", Top, false},
		{"TOP", Top, false},
		{" bottom ", Bottom, false},
		{"left", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePosition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParsePosition(%q) err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParsePosition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
