package hotkeys

import (
	"sort"
	"testing"
)

func TestIgnoreMasks(t *testing.T) {
	got := ignoreMasks(2, 16, 0)
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []uint16{0, 2, 16, 18}
	if len(got) != len(want) {
		t.Fatalf("masks = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("masks = %v, want %v", got, want)
		}
	}
}

func TestIgnoreMasks_Duplicates(t *testing.T) {
	if got := ignoreMasks(2, 2, 2); len(got) != 2 {
		t.Fatalf("masks = %v, want [0 2]", got)
	}
}

func TestNewHandler_RequiresX11(t *testing.T) {
	if _, err := NewHandler(struct{}{}, nil); err == nil {
		t.Fatalf("expected error for non-X11 backend")
	}
}
