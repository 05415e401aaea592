package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces editor save bursts into one reload.
const DefaultWatchDebounce = 250 * time.Millisecond

// ReloadFunc reloads configuration and returns the files it was read from.
type ReloadFunc func() ([]string, error)

// WatcherConfig holds configuration for the config watcher.
type WatcherConfig struct {
	Files    []string
	Debounce time.Duration
	Logger   *slog.Logger
}

// ConfigWatcher reloads configuration when one of its files changes.
// Directories are watched rather than files so that atomic saves, which
// replace the file, are still seen.
type ConfigWatcher struct {
	watcher  *fsnotify.Watcher
	reload   ReloadFunc
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	files map[string]struct{}
	dirs  map[string]struct{}
}

// NewConfigWatcher starts watching the directories of cfg.Files.
func NewConfigWatcher(cfg WatcherConfig, reload ReloadFunc) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cw := &ConfigWatcher{
		watcher:  w,
		reload:   reload,
		debounce: debounce,
		logger:   logger,
		files:    make(map[string]struct{}),
		dirs:     make(map[string]struct{}),
	}
	cw.track(cfg.Files)
	return cw, nil
}

// track adds files to the watch set. Directories that cannot be watched
// are logged and skipped.
func (cw *ConfigWatcher) track(files []string) {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, f := range files {
		if f == "" {
			continue
		}
		f = filepath.Clean(f)
		cw.files[f] = struct{}{}

		dir := filepath.Dir(f)
		if _, ok := cw.dirs[dir]; ok {
			continue
		}
		if err := cw.watcher.Add(dir); err != nil {
			cw.logger.Warn("cannot watch config directory", "dir", dir, "error", err)
			continue
		}
		cw.dirs[dir] = struct{}{}
	}
}

func (cw *ConfigWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	cw.mu.Lock()
	defer cw.mu.Unlock()
	_, ok := cw.files[filepath.Clean(ev.Name)]
	return ok
}

// Watched returns the number of watched directories.
func (cw *ConfigWatcher) Watched() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return len(cw.dirs)
}

// Run blocks until ctx is cancelled, reloading after each burst of changes.
func (cw *ConfigWatcher) Run(ctx context.Context) {
	defer cw.watcher.Close()

	cw.logger.Info("config watcher started", "dirs", cw.Watched())

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			cw.logger.Info("config watcher stopped")
			return

		case ev, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if !cw.relevant(ev) {
				continue
			}
			cw.logger.Debug("config file changed", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(cw.debounce)
			} else {
				timer.Reset(cw.debounce)
			}
			fire = timer.C

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Warn("config watcher error", "error", err)

		case <-fire:
			fire = nil
			files, err := cw.reload()
			if err != nil {
				cw.logger.Warn("config reload failed", "error", err)
				continue
			}
			// Includes may have changed.
			cw.track(files)
		}
	}
}
