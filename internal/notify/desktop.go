// Package notify delivers desktop popups for newly created alerts.
// Delivery is strictly best-effort: an unsupported desktop environment
// or a user who declined notifications must never block anything else.
package notify

import "github.com/gen2brain/beeep"

// Notifier sends a platform-level notification popup.
type Notifier interface {
	Notify(title, body string) error
}

// Desktop sends notifications through the OS notification service.
type Desktop struct {
	appName string
}

// NewDesktop creates a desktop notifier labeled with appName.
func NewDesktop(appName string) *Desktop {
	return &Desktop{appName: appName}
}

// Notify shows a popup. Errors are returned for logging but callers
// are expected to ignore them.
func (d *Desktop) Notify(title, body string) error {
	beeep.AppName = d.appName
	return beeep.Notify(title, body, "")
}

// Discard is a Notifier that drops everything, used when desktop
// notifications are disabled.
type Discard struct{}

// Notify implements Notifier as a no-op.
func (Discard) Notify(title, body string) error {
	return nil
}
