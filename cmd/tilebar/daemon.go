package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/component"
	"github.com/1broseidon/tilebar/internal/config"
	"github.com/1broseidon/tilebar/internal/daemon"
	"github.com/1broseidon/tilebar/internal/hotkeys"
	"github.com/1broseidon/tilebar/internal/ipc"
	"github.com/1broseidon/tilebar/internal/metrics"
	"github.com/1broseidon/tilebar/internal/platform"
	"github.com/1broseidon/tilebar/internal/runtimepath"
	"github.com/1broseidon/tilebar/internal/xbar"
)

// reloadTimeout bounds how long a reload waits for the compositor to
// swap components.
const reloadTimeout = 5 * time.Second

var errAllBarsClosed = errors.New("all bars closed")

// app is the running daemon. It serves IPC and hotkey requests.
type app struct {
	configPath string
	backend    *platform.LinuxBackend
	comp       *bar.Compositor
	logger     *slog.Logger

	mu         sync.Mutex
	components bar.Components
}

var (
	_ ipc.Controller  = (*app)(nil)
	_ hotkeys.Actions = (*app)(nil)
)

// configFiles lists the files a config watcher should follow: the files
// that were loaded plus the primary path, which may not exist yet.
func (a *app) configFiles(loaded []string) []string {
	primary := a.configPath
	if primary == "" {
		if p, err := config.DefaultConfigPath(); err == nil {
			primary = p
		}
	}
	return append([]string{primary}, loaded...)
}

func (a *app) deps() component.Deps {
	return component.Deps{
		Desktops: a.backend,
		Run:      component.ShellRunner(a.logger),
		Logger:   a.logger,
	}
}

func (a *app) Redraw() {
	a.comp.Post(bar.RedrawAll{})
}

// Reload rebuilds components from the config file and hands them to the
// compositor. The previous components are released once the compositor
// has stopped using them.
func (a *app) Reload() error {
	_, err := a.reload()
	return err
}

func (a *app) reload() ([]string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	res, err := loadConfig(a.configPath)
	if err != nil {
		return nil, err
	}
	cfg := res.Config
	comps, err := component.BuildAll(cfg.Components, a.deps())
	if err != nil {
		return nil, err
	}

	a.comp.Post(bar.UpdateComponents{Settings: component.Settings(cfg), Components: comps})

	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()
	if err := a.comp.Sync(ctx); err != nil {
		// The update may still be queued; keep both sets alive.
		return nil, fmt.Errorf("compositor did not apply reload: %w", err)
	}

	component.Close(a.components)
	a.components = comps
	log.Printf("Config reloaded (%d left, %d center, %d right components)",
		len(comps.Left), len(comps.Center), len(comps.Right))
	return a.configFiles(res.Files), nil
}

func (a *app) Status(ctx context.Context) (bar.Status, error) {
	return a.comp.Status(ctx)
}

func (a *app) Displays() ([]platform.Display, error) {
	return a.backend.Displays()
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilebar/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilebar daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Create one bar per display and run until interrupted.")
		fmt.Fprintln(os.Stderr, "SIGHUP reloads the configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := res.Config
	log.Printf("Configuration loaded (height: %dpx, position: %s, refresh: %s)",
		cfg.Bar.Height, cfg.Bar.Position, cfg.RefreshInterval())

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	a := &app{configPath: *path, backend: backend, logger: logger}

	comps, err := component.BuildAll(cfg.Components, a.deps())
	if err != nil {
		log.Fatalf("Failed to build components: %v", err)
	}
	a.components = comps

	windows := xbar.New(backend.XUtil(), xbar.Config{
		Post:   func(ev bar.Event) { a.comp.Post(ev) },
		Owner:  backend,
		Logger: logger,
	})
	a.comp = bar.New(bar.Options{
		Windows:    windows,
		Workspace:  backend,
		Settings:   component.Settings(cfg),
		Components: comps,
		Logger:     logger,
	})

	displays, err := backend.Displays()
	if err != nil {
		log.Fatalf("Failed to list displays: %v", err)
	}
	if len(displays) == 0 {
		log.Fatalf("No displays found")
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve IPC socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, a)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	if handler, err := hotkeys.NewHandler(backend, a); err != nil {
		log.Printf("Warning: hotkeys disabled: %v", err)
	} else {
		if err := handler.RegisterRedraw(cfg.RedrawHotkey); err != nil {
			log.Printf("Warning: %v", err)
		} else if cfg.RedrawHotkey != "" {
			log.Printf("Redraw hotkey registered: %s", cfg.RedrawHotkey)
		}
		if err := handler.RegisterReload(cfg.ReloadHotkey); err != nil {
			log.Printf("Warning: %v", err)
		} else if cfg.ReloadHotkey != "" {
			log.Printf("Reload hotkey registered: %s", cfg.ReloadHotkey)
		}
		defer handler.Unregister()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hupCh := make(chan os.Signal, 1)
	signal.Notify(hupCh, syscall.SIGHUP)
	defer signal.Stop(hupCh)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.comp.Run(gctx)
	})

	g.Go(func() error {
		log.Println("Entering event loop...")
		backend.EventLoop()
		if gctx.Err() != nil {
			return nil
		}
		return errors.New("x11 event loop exited")
	})
	g.Go(func() error {
		<-gctx.Done()
		backend.Quit()
		return nil
	})

	refresher := daemon.NewRefresher(daemon.RefresherConfig{
		Interval: cfg.RefreshInterval(),
		Logger:   logger,
	}, a.comp.Post, a.comp.Bars)
	g.Go(func() error {
		refresher.Run(gctx)
		if gctx.Err() != nil {
			return nil
		}
		return errAllBarsClosed
	})

	if cfg.MetricsListen != "" {
		g.Go(func() error {
			log.Printf("Metrics listening on %s", cfg.MetricsListen)
			return metrics.Serve(gctx, cfg.MetricsListen)
		})
	}

	if cfg.WatchConfig {
		watcher, err := daemon.NewConfigWatcher(daemon.WatcherConfig{
			Files:  a.configFiles(res.Files),
			Logger: logger,
		}, a.reload)
		if err != nil {
			log.Printf("Warning: config watching disabled: %v", err)
		} else {
			g.Go(func() error {
				watcher.Run(gctx)
				return nil
			})
		}
	}

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-hupCh:
				log.Println("Received SIGHUP, reloading config...")
				if err := a.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
				}
			}
		}
	})

	for _, d := range displays {
		a.comp.Post(bar.Create{Display: d})
	}
	log.Printf("tilebar daemon started on %d display(s)", len(displays))

	err = g.Wait()
	component.Close(a.components)
	switch {
	case err == nil:
		log.Println("Shutting down tilebar daemon...")
		return 0
	case errors.Is(err, errAllBarsClosed):
		log.Println("All bars closed, shutting down")
		return 0
	default:
		log.Printf("Daemon stopped: %v", err)
		return 1
	}
}
