package xbar

import (
	"testing"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/BurntSushi/xgb/xproto"
)

func TestBaselineY(t *testing.T) {
	tests := []struct {
		h, ascent, descent, want int
	}{
		{20, 11, 2, 14},
		{13, 11, 2, 11},
		{10, 11, 2, 11},
	}
	for _, tt := range tests {
		if got := baselineY(tt.h, tt.ascent, tt.descent); got != tt.want {
			t.Fatalf("baselineY(%d, %d, %d) = %d, want %d", tt.h, tt.ascent, tt.descent, got, tt.want)
		}
	}
}

func TestToChar2b(t *testing.T) {
	got := toChar2b("aé€😀")
	want := []xproto.Char2b{
		{Byte1: 0x00, Byte2: 'a'},
		{Byte1: 0x00, Byte2: 0xe9},
		{Byte1: 0x20, Byte2: 0xac},
		{Byte1: 0x00, Byte2: '?'},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("char %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChunkChars(t *testing.T) {
	chars := make([]xproto.Char2b, 600)
	chunks := chunkChars(chars, maxTextChunk)
	if len(chunks) != 3 || len(chunks[0]) != 255 || len(chunks[2]) != 90 {
		t.Fatalf("chunks = %d sizes %d/%d", len(chunks), len(chunks[0]), len(chunks[len(chunks)-1]))
	}
	if got := chunkChars(nil, maxTextChunk); len(got) != 0 {
		t.Fatalf("empty input gave %d chunks", len(got))
	}
}

func TestIsClickButton(t *testing.T) {
	for b, want := range map[xproto.Button]bool{1: true, 2: true, 3: true, 4: false, 5: false} {
		if got := isClickButton(b); got != want {
			t.Fatalf("isClickButton(%d) = %v", b, got)
		}
	}
}

func TestCursorSet(t *testing.T) {
	c := cursorSet{normal: 7, hand: 9}
	if c.get(bar.CursorDefault) != 7 || c.get(bar.CursorClickable) != 9 {
		t.Fatalf("cursor lookup wrong: %+v", c)
	}
	if (cursorSet{}).get(bar.CursorClickable) != 0 {
		t.Fatalf("empty set should yield 0")
	}
}
