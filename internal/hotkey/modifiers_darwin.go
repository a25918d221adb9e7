//go:build darwin

package hotkey

import (
	"golang.design/x/hotkey"

	"yuki/internal/config"
)

// modifierMap maps config modifiers to macOS modifiers.
var modifierMap = map[config.Modifier]hotkey.Modifier{
	config.ModCtrl:  hotkey.ModCtrl,
	config.ModShift: hotkey.ModShift,
	config.ModAlt:   hotkey.ModOption,
	config.ModSuper: hotkey.ModCmd,
}
