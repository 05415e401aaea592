package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/component"
	"github.com/1broseidon/tilebar/internal/platform"
	"github.com/1broseidon/tilebar/internal/termdraw"
)

const defaultPreviewWidth = 80

var previewDesktops = []string{"1", "2", "3"}

// previewWorkspace is the desktop state shown by preview. Clicks and the
// watch view's number keys switch between its desktops.
type previewWorkspace struct {
	mu      sync.Mutex
	current int
}

func (p *previewWorkspace) Workspace() (platform.Workspace, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return platform.Workspace{
		Current:     p.current,
		Names:       previewDesktops,
		ActiveTitle: "tilebar preview",
	}, nil
}

func (p *previewWorkspace) SwitchDesktop(index int) error {
	if index < 0 || index >= len(previewDesktops) {
		return fmt.Errorf("desktop %d out of range", index)
	}
	p.mu.Lock()
	p.current = index
	p.mu.Unlock()
	return nil
}

func (p *previewWorkspace) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

func runPreview(args []string) int {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	width := fs.Int("width", 0, "Bar width in columns (default: terminal width)")
	path := fs.String("path", "", "Config file path (default: ~/.config/tilebar/config.yaml)")
	light := fs.Bool("light", false, "Force the light theme")
	watch := fs.Bool("watch", false, "Keep redrawing in an interactive view (q to quit)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilebar preview [--width N] [--path PATH] [--light] [--watch]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render the configured bar in the terminal, one column per unit.")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	cfg := res.Config
	if *light {
		cfg.LightTheme = true
	}

	w := *width
	if w <= 0 {
		w = terminalWidth()
	}

	// Components log to stderr so the frame on stdout stays clean.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	ws := &previewWorkspace{}
	comps, err := component.BuildAll(cfg.Components, component.Deps{
		Desktops: ws,
		Run:      component.ShellRunner(logger),
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer component.Close(comps)

	sys := termdraw.NewSystem()
	comp := bar.New(bar.Options{
		Windows:    sys,
		Workspace:  ws,
		Settings:   component.Settings(cfg),
		Components: comps,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- comp.Run(runCtx) }()
	defer func() {
		cancel()
		<-done
	}()

	display := platform.Display{
		ID:     0,
		Name:   "preview",
		Bounds: platform.Rect{Width: w, Height: cfg.Bar.Height},
		Usable: platform.Rect{Width: w, Height: cfg.Bar.Height},
		DPI:    96,
	}
	comp.Post(bar.Create{Display: display})

	color := term.IsTerminal(int(os.Stdout.Fd()))
	if *watch {
		if !color {
			fmt.Fprintln(os.Stderr, "Error: --watch requires an interactive terminal")
			return 2
		}
		if err := runPreviewTUI(ctx, comp, sys, ws, cfg.RefreshInterval()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	line, err := previewFrame(ctx, comp, sys, color)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintln(os.Stdout, line)
	return 0
}

// previewFrame redraws the preview bar and returns it as one line.
func previewFrame(ctx context.Context, comp *bar.Compositor, sys *termdraw.System, color bool) (string, error) {
	comp.Post(bar.RedrawAll{})
	if err := comp.Sync(ctx); err != nil {
		return "", err
	}
	win, ok := sys.ForDisplay(0)
	if !ok {
		return "", fmt.Errorf("preview bar was not created")
	}
	if color {
		return win.Canvas().Render(), nil
	}
	return win.Canvas().Plain(), nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultPreviewWidth
}
