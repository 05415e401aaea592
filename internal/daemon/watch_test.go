package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("log_level: info\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	reloads := make(chan struct{}, 4)
	cw, err := NewConfigWatcher(WatcherConfig{
		Files:    []string{cfgPath},
		Debounce: 10 * time.Millisecond,
		Logger:   quietLogger(),
	}, func() ([]string, error) {
		reloads <- struct{}{}
		return []string{cfgPath}, nil
	})
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	if cw.Watched() != 1 {
		t.Fatalf("watched dirs = %d, want 1", cw.Watched())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cw.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-reloads:
		t.Fatalf("reload triggered by unrelated file")
	case <-time.After(100 * time.Millisecond):
	}

	if err := os.WriteFile(cfgPath, []byte("log_level: debug\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-reloads:
	case <-time.After(2 * time.Second):
		t.Fatalf("no reload after config change")
	}
}

func TestConfigWatcher_SkipsMissingDirectory(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope", "config.yaml")
	cw, err := NewConfigWatcher(WatcherConfig{Files: []string{missing, ""}, Logger: quietLogger()},
		func() ([]string, error) { return nil, nil })
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}
	defer cw.watcher.Close()
	if cw.Watched() != 0 {
		t.Fatalf("watched dirs = %d, want 0", cw.Watched())
	}
}
