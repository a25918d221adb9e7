// Package tray shows the assistant's state in the system tray.
package tray

import (
	"github.com/getlantern/systray"

	"yuki/internal/i18n"
	"yuki/internal/tray/icon"
	"yuki/internal/voice"
)

var icons = map[voice.State][]byte{
	voice.StateIdle:       icon.Microphone(icon.Gray),
	voice.StateListening:  icon.Microphone(icon.Green),
	voice.StateProcessing: icon.Microphone(icon.Orange),
	voice.StateSpeaking:   icon.Microphone(icon.Blue),
}

var statusKeys = map[voice.State]string{
	voice.StateIdle:       "tray_ready",
	voice.StateListening:  "tray_listening",
	voice.StateProcessing: "tray_processing",
	voice.StateSpeaking:   "tray_speaking",
}

// Callbacks handle menu clicks.
type Callbacks struct {
	OnNotificationsToggle func() bool
	OnPushToTalk          func()
	OnHotkeyChange        func() string // returns the hotkey now in effect
	OnQuit                func()
}

// Tray manages the tray icon and menu.
type Tray struct {
	callbacks     Callbacks
	notifications bool
	hotkey        string
	notifyOn      *systray.MenuItem
	status        *systray.MenuItem
	talkBtn       *systray.MenuItem
	hotkeyBtn     *systray.MenuItem
	quitBtn       *systray.MenuItem
}

// New creates a tray. notifications is the initial checkbox state and
// hotkey the label of the push-to-talk hotkey.
func New(callbacks Callbacks, notifications bool, hotkey string) *Tray {
	return &Tray{callbacks: callbacks, notifications: notifications, hotkey: hotkey}
}

// Run shows the tray and blocks until Quit. onReady runs once the tray is up.
func (t *Tray) Run(onReady func()) {
	systray.Run(func() {
		t.onReady()
		if onReady != nil {
			onReady()
		}
	}, func() {})
}

func (t *Tray) onReady() {
	systray.SetIcon(icons[voice.StateIdle])
	systray.SetTitle(i18n.T("app_name"))
	systray.SetTooltip(i18n.T("app_tooltip"))

	t.status = systray.AddMenuItem(i18n.T("tray_ready"), "")
	t.status.Disable()

	systray.AddSeparator()

	t.talkBtn = systray.AddMenuItem(i18n.T("tray_push_to_talk"), i18n.T("tray_push_to_talk_hint"))
	t.hotkeyBtn = systray.AddMenuItem(i18n.Tf("tray_hotkey", t.hotkey), i18n.T("tray_hotkey_hint"))
	t.notifyOn = systray.AddMenuItemCheckbox(i18n.T("tray_notifications"), i18n.T("tray_notifications_hint"), t.notifications)

	systray.AddSeparator()

	t.quitBtn = systray.AddMenuItem(i18n.T("tray_quit"), i18n.T("tray_quit_hint"))

	go t.handleMenuEvents()
}

func (t *Tray) handleMenuEvents() {
	for {
		select {
		case <-t.notifyOn.ClickedCh:
			if t.callbacks.OnNotificationsToggle != nil {
				if t.callbacks.OnNotificationsToggle() {
					t.notifyOn.Check()
				} else {
					t.notifyOn.Uncheck()
				}
			}

		case <-t.talkBtn.ClickedCh:
			if t.callbacks.OnPushToTalk != nil {
				t.callbacks.OnPushToTalk()
			}

		case <-t.hotkeyBtn.ClickedCh:
			if t.callbacks.OnHotkeyChange != nil {
				t.hotkeyBtn.SetTitle(i18n.Tf("tray_hotkey", t.callbacks.OnHotkeyChange()))
			}

		case <-t.quitBtn.ClickedCh:
			if t.callbacks.OnQuit != nil {
				t.callbacks.OnQuit()
			}
			systray.Quit()
			return
		}
	}
}

// SetState updates the icon, tooltip and status line.
func (t *Tray) SetState(state voice.State) {
	key, ok := statusKeys[state]
	if !ok {
		return
	}
	systray.SetIcon(icons[state])
	systray.SetTooltip(i18n.T("app_name") + " - " + i18n.T(key))
	if t.status != nil {
		t.status.SetTitle(i18n.T(key))
	}
}

// Quit closes the tray and makes Run return.
func (t *Tray) Quit() {
	systray.Quit()
}
