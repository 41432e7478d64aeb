//go:build darwin

package speech

import (
	"fmt"
	"os/exec"
	"strconv"
)

// rateWPM is slower than the say default so dose amounts stay clear.
const rateWPM = 160

// say reads a reminder with the built-in say command, which takes volume
// on a 0.0-1.0 scale.
func say(text string, volume int) error {
	vol := strconv.FormatFloat(float64(volume)/100, 'f', 2, 64)
	cmd := exec.Command("say", "--volume", vol, "-r", strconv.Itoa(rateWPM), text)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("reminder speech: %w\n%s", err, out)
	}
	return nil
}
