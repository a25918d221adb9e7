// Package dialog provides native confirmation and selection dialogs.
package dialog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"

	"yuki/internal/config"
)

// Zenity shows native dialogs.
type Zenity struct{}

// Confirm asks a yes/no question. Cancel, close and dialog errors count as no.
func (Zenity) Confirm(title, text string) bool {
	return zenity.Question(text, zenity.Title(title)) == nil
}

var keyLabels = map[config.Key]string{
	config.KeySpace:  "Space",
	config.KeyReturn: "Return",
}

func keyLabel(k config.Key) string {
	if l, ok := keyLabels[k]; ok {
		return l
	}
	return strings.ToUpper(string(k))
}

// SelectHotkey asks for the push-to-talk modifiers and key.
// It returns an error if the user cancels.
func SelectHotkey(current config.HotkeyConfig) (config.HotkeyConfig, error) {
	modOptions := []string{"Ctrl", "Shift", "Alt", "Super (Win/Cmd)"}
	modValues := config.AvailableModifiers()

	currentMods := make([]string, 0, len(current.Modifiers))
	for _, m := range current.Modifiers {
		for i, v := range modValues {
			if v == m {
				currentMods = append(currentMods, modOptions[i])
			}
		}
	}

	selectedMods, err := zenity.ListMultiple(
		"Modifiers:",
		modOptions,
		zenity.Title("Yuki push-to-talk"),
		zenity.DefaultItems(currentMods...),
	)
	if err != nil {
		return current, err
	}
	if len(selectedMods) == 0 {
		return current, errors.New("at least one modifier is required")
	}

	mods := make([]config.Modifier, 0, len(selectedMods))
	for _, s := range selectedMods {
		for i, opt := range modOptions {
			if s == opt {
				mods = append(mods, modValues[i])
				break
			}
		}
	}

	keys := config.AvailableKeys()
	keyOptions := make([]string, len(keys))
	for i, k := range keys {
		keyOptions[i] = keyLabel(k)
	}

	selectedKey, err := zenity.List(
		"Key:",
		keyOptions,
		zenity.Title("Yuki push-to-talk"),
		zenity.DefaultItems(keyLabel(current.Key)),
	)
	if err != nil {
		return current, err
	}

	for i, opt := range keyOptions {
		if selectedKey == opt {
			return config.HotkeyConfig{Modifiers: mods, Key: keys[i]}, nil
		}
	}
	return current, fmt.Errorf("unknown key %q", selectedKey)
}

// ShowInfo shows an information message.
func ShowInfo(title, message string) {
	zenity.Info(message, zenity.Title(title))
}

// ShowError shows an error message.
func ShowError(title, message string) {
	zenity.Error(message, zenity.Title(title))
}
