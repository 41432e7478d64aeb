//go:build linux

package speech

import (
	"fmt"
	"os/exec"
	"strconv"
)

// rateWPM is slower than espeak's default 175 so dose amounts stay clear.
const rateWPM = 150

// say reads a reminder with espeak-ng, or espeak when only the older
// engine is installed.
func say(text string, volume int) error {
	args := espeakArgs(text, volume)
	for _, bin := range []string{"espeak-ng", "espeak"} {
		path, err := exec.LookPath(bin)
		if err != nil {
			continue
		}
		if out, err := exec.Command(path, args...).CombinedOutput(); err != nil {
			return fmt.Errorf("reminder speech: %s: %w\n%s", bin, err, out)
		}
		return nil
	}
	return fmt.Errorf("reminder speech unavailable: install espeak-ng or espeak")
}

// espeakArgs maps volume 0-100 onto espeak's 0-200 amplitude.
func espeakArgs(text string, volume int) []string {
	return []string{"--amplitude", strconv.Itoa(volume * 2), "-s", strconv.Itoa(rateWPM), text}
}
