package main

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/termdraw"
)

var previewHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

type frameMsg struct {
	line string
	err  error
}

type tickMsg time.Time

// previewModel is the bubbletea model behind preview --watch.
type previewModel struct {
	ctx      context.Context
	comp     *bar.Compositor
	sys      *termdraw.System
	ws       *previewWorkspace
	interval time.Duration

	line string
	err  error
}

func newPreviewModel(ctx context.Context, comp *bar.Compositor, sys *termdraw.System, ws *previewWorkspace, interval time.Duration) previewModel {
	return previewModel{ctx: ctx, comp: comp, sys: sys, ws: ws, interval: interval}
}

func (m previewModel) frame() tea.Cmd {
	return func() tea.Msg {
		line, err := previewFrame(m.ctx, m.comp, m.sys, true)
		return frameMsg{line: line, err: err}
	}
}

func (m previewModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init implements tea.Model.
func (m previewModel) Init() tea.Cmd {
	return tea.Batch(m.frame(), m.tick())
}

// Update implements tea.Model.
func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r":
			return m, m.frame()
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			if err := m.ws.SwitchDesktop(int(key[0] - '1')); err != nil {
				return m, nil
			}
			return m, m.frame()
		}

	case tickMsg:
		if m.ctx.Err() != nil {
			return m, tea.Quit
		}
		return m, tea.Batch(m.frame(), m.tick())

	case frameMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.line = msg.line
	}
	return m, nil
}

// View implements tea.Model.
func (m previewModel) View() string {
	return m.line + "\n\n" + previewHelpStyle.Render("1-9 switch desktop • r redraw • q quit")
}

func runPreviewTUI(ctx context.Context, comp *bar.Compositor, sys *termdraw.System, ws *previewWorkspace, interval time.Duration) error {
	p := tea.NewProgram(newPreviewModel(ctx, comp, sys, ws, interval), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	if m, ok := final.(previewModel); ok && m.err != nil && ctx.Err() == nil {
		return m.err
	}
	return nil
}
