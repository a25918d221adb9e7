// Package notify provides desktop notifications.
package notify

import (
	"sync"

	"github.com/gen2brain/beeep"

	"yuki/internal/i18n"
)

const maxBody = 100

// Notifier sends desktop notifications.
type Notifier struct {
	mu      sync.RWMutex
	enabled bool
	send    func(title, message string) error
}

// New creates a Notifier backed by beeep.
func New(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
	}
}

// SetEnabled turns notifications on or off.
func (n *Notifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// Ready announces that the assistant is listening.
func (n *Notifier) Ready() {
	n.notify("", i18n.T("notify_ready"))
}

// Heard shows a recognised utterance.
func (n *Notifier) Heard(text string) {
	n.notify(i18n.T("notify_heard"), text)
}

// Reply shows an assistant reply.
func (n *Notifier) Reply(text string) {
	n.notify("", text)
}

// Error shows an error.
func (n *Notifier) Error(msg string) {
	n.notify(i18n.T("notify_error"), msg)
}

func (n *Notifier) notify(title, message string) {
	n.mu.RLock()
	enabled := n.enabled
	n.mu.RUnlock()
	if !enabled {
		return
	}

	if r := []rune(message); len(r) > maxBody {
		message = string(r[:maxBody]) + "..."
	}

	heading := i18n.T("app_name")
	if title != "" {
		heading += ": " + title
	}
	// Notification failures are not critical.
	_ = n.send(heading, message)
}
