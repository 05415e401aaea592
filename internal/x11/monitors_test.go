package x11

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
)

func TestMonitorDPI(t *testing.T) {
	tests := []struct {
		m    Monitor
		want int
	}{
		{Monitor{Width: 1920, MmWidth: 508}, 96},
		{Monitor{Width: 3840, MmWidth: 597}, 163},
		{Monitor{Width: 1920}, 0},
	}
	for _, tt := range tests {
		if got := tt.m.DPI(); got != tt.want {
			t.Fatalf("DPI(%+v) = %d, want %d", tt.m, got, tt.want)
		}
	}
}

func TestUpdateStrutsForMonitor(t *testing.T) {
	// Two side-by-side 1920x1080 monitors; a 24px top dock on the left one only.
	left := Monitor{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := Monitor{X: 1920, Y: 0, Width: 1920, Height: 1080}
	sp := &ewmh.WmStrutPartial{Top: 24, TopStartX: 0, TopEndX: 1919}

	var accL, accR dockStruts
	updateStrutsForMonitor(&left, 3840, 1080, sp, &accL)
	updateStrutsForMonitor(&right, 3840, 1080, sp, &accR)

	if accL.top != 24 {
		t.Fatalf("left top = %d, want 24", accL.top)
	}
	if accR != (dockStruts{}) {
		t.Fatalf("right monitor should be unaffected: %+v", accR)
	}
}

func TestUpdateStrutsForMonitor_Bottom(t *testing.T) {
	mon := Monitor{Width: 1920, Height: 1080}
	var acc dockStruts
	updateStrutsForMonitor(&mon, 1920, 1080, &ewmh.WmStrutPartial{Bottom: 30, BottomEndX: 1919}, &acc)
	if acc.bottom != 30 || acc.top != 0 {
		t.Fatalf("struts = %+v", acc)
	}
}

func TestSpanIntersect(t *testing.T) {
	a := span{0, 0, 10, 10}
	if got := a.intersect(span{5, 5, 20, 20}); got.w != 5 || got.h != 5 {
		t.Fatalf("overlap = %+v", got)
	}
	if got := a.intersect(span{10, 0, 20, 10}); got != (intersection{}) {
		t.Fatalf("touching spans should not intersect: %+v", got)
	}
}
