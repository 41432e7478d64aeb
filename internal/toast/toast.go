// Package toast raises desktop notifications through the host's native
// notification command.
package toast

import "os/exec"

// Available reports whether the notification command for this platform is
// installed. A missing command is treated as "permission not granted".
func Available() bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// Notifier adapts the platform toast to the reminder dispatcher.
type Notifier struct {
	// Enabled mirrors the "notifications" config option.
	Enabled bool
}

// Permitted reports whether reminders may raise a desktop notification.
func (n Notifier) Permitted() bool {
	return n.Enabled && Available()
}

// Show raises a notification with the given title and body.
func (n Notifier) Show(title, body string) error {
	return Show(title, body)
}
