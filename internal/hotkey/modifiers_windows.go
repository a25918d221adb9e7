//go:build windows

package hotkey

import (
	"golang.design/x/hotkey"

	"yuki/internal/config"
)

// modifierMap maps config modifiers to Windows modifiers.
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModAlt,
	config.ModSuper: hotkey.ModWin,
}
