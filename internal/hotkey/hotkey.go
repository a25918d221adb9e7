// Package hotkey registers the global push-to-talk hotkey.
package hotkey

import (
	"log/slog"
	"sync"
	"time"

	"golang.design/x/hotkey"
	"golang.design/x/hotkey/mainthread"

	"yuki/internal/config"
)

// debounce ignores key repeat.
const debounce = 300 * time.Millisecond

// Handler calls onPress whenever the registered hotkey is pressed.
type Handler struct {
	mu      sync.Mutex
	hk      *hotkey.Hotkey
	onPress func()
	current config.HotkeyConfig
	stopCh  chan struct{}
}

// New creates a handler.
func New(onPress func()) *Handler {
	return &Handler{onPress: onPress}
}

// Register registers cfg, replacing any previous hotkey.
func (h *Handler) Register(cfg config.HotkeyConfig) error {
	slog.Info("registering hotkey", "hotkey", cfg.String())

	h.mu.Lock()
	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
	old := h.hk
	h.hk = nil
	h.mu.Unlock()

	// Let the old listener exit before unregistering.
	time.Sleep(50 * time.Millisecond)

	if old != nil {
		done := make(chan struct{})
		go func() {
			old.Unregister()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(500 * time.Millisecond):
			slog.Warn("hotkey unregister timed out")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	mods, key := Resolve(cfg)
	h.hk = hotkey.New(mods, key)
	h.current = cfg
	h.stopCh = make(chan struct{})

	if err := h.hk.Register(); err != nil {
		slog.Error("hotkey registration failed", "hotkey", cfg.String(), "error", err)
		h.hk = nil
		h.stopCh = nil
		return err
	}

	go h.listen(h.hk, h.stopCh)
	return nil
}

// Resolve converts cfg to platform modifiers and key. Unknown modifiers are
// dropped and an unknown key falls back to space.
func Resolve(cfg config.HotkeyConfig) ([]hotkey.Modifier, hotkey.Key) {
	mods := make([]hotkey.Modifier, 0, len(cfg.Modifiers))
	for _, m := range cfg.Modifiers {
		if mod, ok := modifierMap[m]; ok {
			mods = append(mods, mod)
		}
	}
	key, ok := keyMap[cfg.Key]
	if !ok {
		key = hotkey.KeySpace
	}
	return mods, key
}

func (h *Handler) listen(hk *hotkey.Hotkey, stopCh chan struct{}) {
	var last time.Time
	for {
		select {
		case <-stopCh:
			return
		case _, ok := <-hk.Keydown():
			if !ok {
				return
			}
			now := time.Now()
			if now.Sub(last) < debounce {
				continue
			}
			last = now
			if h.onPress != nil {
				h.onPress()
			}
		case _, ok := <-hk.Keyup():
			if !ok {
				return
			}
		}
	}
}

// Unregister removes the hotkey.
func (h *Handler) Unregister() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stopCh != nil {
		close(h.stopCh)
		h.stopCh = nil
	}
	if h.hk != nil {
		err := h.hk.Unregister()
		h.hk = nil
		return err
	}
	return nil
}

// Current returns the registered hotkey.
func (h *Handler) Current() config.HotkeyConfig {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.current
}

// RunOnMainThread runs fn on the main thread, which macOS requires for
// hotkeys and the tray.
func RunOnMainThread(fn func()) {
	mainthread.Init(fn)
}

var keyMap = map[config.Key]hotkey.Key{
	config.KeySpace:  hotkey.KeySpace,
	config.KeyReturn: hotkey.KeyReturn,
	config.KeyY:      hotkey.KeyY,
	config.KeyF9:     hotkey.KeyF9,
	config.KeyF10:    hotkey.KeyF10,
	config.KeyF11:    hotkey.KeyF11,
	config.KeyF12:    hotkey.KeyF12,
}
