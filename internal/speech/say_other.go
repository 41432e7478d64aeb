//go:build !linux && !darwin && !windows

package speech

import "errors"

func say(text string, volume int) error {
	return errors.New("speech not available on this platform")
}
