//go:build linux

package toast

import (
	"fmt"
	"os/exec"
)

const command = "notify-send"

// Show raises a dose reminder with notify-send.
func Show(title, message string) error {
	cmd := exec.Command(command, args(title, message)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("dose notification: %w\n%s", err, out)
	}
	return nil
}

// args keeps the reminder on screen until dismissed (critical urgency) and
// tags it with a reminder icon and category for the notification daemon.
func args(title, message string) []string {
	return []string{
		"--app-name=medtime",
		"--urgency=critical",
		"--icon=appointment-soon",
		"--category=reminder",
		title, message,
	}
}
