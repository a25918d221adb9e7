//go:build linux

package hotkey

import (
	"golang.design/x/hotkey"

	"yuki/internal/config"
)

// modifierMap maps config modifiers to X11 modifiers.
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.Mod1,
	config.ModSuper: hotkey.Mod4,
}
