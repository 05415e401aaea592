package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/component"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/platform"
	"github.com/1broseidon/tilebar/internal/termdraw"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 5}, "file:/c.yaml:3:5"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestPreviewFrame(t *testing.T) {
	ws := &previewWorkspace{}
	comps, err := component.BuildAll(config.ComponentsConfig{
		Left:  []config.ComponentSpec{{Kind: config.KindWorkspaces}},
		Right: []config.ComponentSpec{{Kind: config.KindText, Text: "hi"}},
	}, component.Deps{Desktops: ws})
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}

	sys := termdraw.NewSystem()
	comp := bar.New(bar.Options{
		Windows:    sys,
		Workspace:  ws,
		Settings:   bar.Settings{Height: 1},
		Components: comps,
	})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- comp.Run(ctx) }()
	defer func() {
		cancel()
		<-done
	}()

	display := platform.Display{Usable: platform.Rect{Width: 20, Height: 1}}
	comp.Post(bar.Create{Display: display})

	line, err := previewFrame(ctx, comp, sys, false)
	if err != nil {
		t.Fatalf("previewFrame: %v", err)
	}
	if len(line) != 20 || !strings.HasPrefix(line, " 1  2  3 ") || !strings.HasSuffix(line, "hi") {
		t.Fatalf("frame = %q", line)
	}

	win, _ := sys.ForDisplay(0)
	comp.Post(bar.Clicked{Window: win.ID(), X: 4, Display: display})
	if _, err := previewFrame(ctx, comp, sys, false); err != nil {
		t.Fatalf("previewFrame: %v", err)
	}
	if got := ws.Current(); got != 1 {
		t.Fatalf("current desktop = %d, want 1", got)
	}

	m := newPreviewModel(ctx, comp, sys, ws, time.Second)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	if got := ws.Current(); got != 2 {
		t.Fatalf("current desktop after key = %d, want 2", got)
	}
	if cmd == nil {
		t.Fatalf("desktop key should schedule a frame")
	}
	msg, ok := cmd().(frameMsg)
	if !ok || msg.err != nil || msg.line == "" {
		t.Fatalf("frame msg = %+v", msg)
	}
	m = next.(previewModel)
	next, _ = m.Update(msg)
	if next.(previewModel).line != msg.line {
		t.Fatalf("model did not keep the frame")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}}); cmd != nil {
		t.Fatalf("out of range desktop should be ignored")
	}
}

func TestPreviewWorkspace_SwitchBounds(t *testing.T) {
	ws := &previewWorkspace{}
	if err := ws.SwitchDesktop(len(previewDesktops)); err == nil {
		t.Fatalf("expected out of range error")
	}
	if err := ws.SwitchDesktop(2); err != nil || ws.Current() != 2 {
		t.Fatalf("SwitchDesktop(2): err=%v current=%d", err, ws.Current())
	}
}
