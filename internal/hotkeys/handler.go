// Package hotkeys binds global key sequences to bar actions.
package hotkeys

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Actions are the bar operations reachable from the keyboard.
type Actions interface {
	Redraw()
	Reload() error
}

// x11Accessor is implemented by backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu      *xgbutil.XUtil
	root    xproto.Window
	actions Actions
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler on the backend's root window.
func NewHandler(backend any, actions Actions) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("hotkeys require an X11 backend")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:      xu,
		root:    accessor.RootWindow(),
		actions: actions,
	}, nil
}

// RegisterRedraw binds a key sequence that repaints every bar.
func (h *Handler) RegisterRedraw(keySequence string) error {
	if strings.TrimSpace(keySequence) == "" {
		return nil
	}
	if err := h.RegisterFunc(keySequence, func() {
		log.Println("Redraw hotkey triggered")
		h.actions.Redraw()
	}); err != nil {
		return fmt.Errorf("failed to register redraw hotkey %q: %w", keySequence, err)
	}
	return nil
}

// RegisterReload binds a key sequence that reloads the configuration.
func (h *Handler) RegisterReload(keySequence string) error {
	if strings.TrimSpace(keySequence) == "" {
		return nil
	}
	if err := h.RegisterFunc(keySequence, func() {
		log.Println("Reload hotkey triggered")
		// Reload blocks on the compositor; keep the X event loop free.
		go func() {
			if err := h.actions.Reload(); err != nil {
				log.Printf("Reload failed: %v", err)
			}
		}()
	}); err != nil {
		return fmt.Errorf("failed to register reload hotkey %q: %w", keySequence, err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

// Unregister drops every binding on the root window.
func (h *Handler) Unregister() {
	keybind.Detach(h.xu, h.root)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// CapsLock, NumLock and ScrollLock must not defeat a binding.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	xevent.IgnoreMods = ignoreMasks(caps, numLock, scrollLock)
}

// ignoreMasks returns every combination of the given lock masks,
// including none, without duplicates.
func ignoreMasks(locks ...uint16) []uint16 {
	var base []uint16
	seen := make(map[uint16]bool)
	for _, m := range locks {
		if m != 0 && !seen[m] {
			seen[m] = true
			base = append(base, m)
		}
	}

	out := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		out = append(out, mask)
	}
	return out
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
