package ipc

import (
	"bufio"
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/1broseidon/tilebar/internal/bar"
	"github.com/1broseidon/tilebar/internal/platform"
)

type fakeController struct {
	mu        sync.Mutex
	redraws   int
	reloads   int
	reloadErr error
	status    bar.Status
}

func (f *fakeController) Redraw() {
	f.mu.Lock()
	f.redraws++
	f.mu.Unlock()
}

func (f *fakeController) Reload() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	return f.reloadErr
}

func (f *fakeController) Status(context.Context) (bar.Status, error) {
	return f.status, nil
}

func (f *fakeController) Displays() ([]platform.Display, error) {
	return []platform.Display{{
		ID:     0,
		Name:   "DP-1",
		Bounds: platform.Rect{Width: 1920, Height: 1080},
		Usable: platform.Rect{Y: 20, Width: 1920, Height: 1060},
		DPI:    96,
	}}, nil
}

// startServer listens in a short temp dir; unix socket paths are length limited.
func startServer(t *testing.T, ctl Controller) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "tbipc")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "s.sock")
	srv := NewServer(path, ctl)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return path
}

func TestClientServer_Commands(t *testing.T) {
	ctl := &fakeController{status: bar.Status{Bars: []bar.BarStatus{{
		Window: 7, Display: 0, Name: "DP-1", Width: 1920,
		Left: bar.Span{Left: 0, Right: 120}, Frames: 3,
	}}}}
	client := NewClientAt(startServer(t, ctl))

	if err := client.Redraw(); err != nil {
		t.Fatalf("Redraw: %v", err)
	}
	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if ctl.redraws != 1 || ctl.reloads != 1 {
		t.Fatalf("redraws=%d reloads=%d", ctl.redraws, ctl.reloads)
	}

	st, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if !st.DaemonRunning || st.BarCount != 1 || st.Bars[0].Window != 7 || st.Bars[0].Left.Right != 120 {
		t.Fatalf("status = %+v", st)
	}

	ds, err := client.GetDisplays()
	if err != nil {
		t.Fatalf("GetDisplays: %v", err)
	}
	if len(ds.Displays) != 1 || ds.Displays[0].UsableHeight != 1060 || ds.Displays[0].Name != "DP-1" {
		t.Fatalf("displays = %+v", ds)
	}
}

func TestClientServer_ReloadError(t *testing.T) {
	ctl := &fakeController{reloadErr: errors.New("bad yaml")}
	client := NewClientAt(startServer(t, ctl))

	err := client.Reload()
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("err = %v", err)
	}
}

func TestServer_RejectsUnknownAndMalformed(t *testing.T) {
	path := startServer(t, &fakeController{})

	for _, line := range []string{`{"command":"TILE"}`, `not json`, `{}`} {
		conn, err := net.Dial("unix", path)
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		if _, err := conn.Write([]byte(line + "\n")); err != nil {
			t.Fatalf("write: %v", err)
		}
		resp, err := bufio.NewReader(conn).ReadString('\n')
		conn.Close()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if !strings.Contains(resp, `"status":"ERROR"`) {
			t.Fatalf("%s: response = %s", line, resp)
		}
	}
}

func TestClient_NoDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("err = %v", err)
	}
}
