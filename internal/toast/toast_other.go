//go:build !linux && !darwin && !windows

package toast

import "errors"

const command = "notify-send"

// Show is unsupported on this platform.
func Show(title, message string) error {
	return errors.New("toast: desktop notifications are not supported on this platform")
}
