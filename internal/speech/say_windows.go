//go:build windows

package speech

import (
	"fmt"
	"os/exec"
	"strings"
)

func say(text string, volume int) error {
	cmd := exec.Command("powershell", "-NoProfile", "-Command", sayScript(text, volume))
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("speech failed: %w\n%s", err, out)
	}
	return nil
}

func sayScript(text string, volume int) string {
	return fmt.Sprintf(`Add-Type -AssemblyName System.Speech; `+
		`$s = New-Object System.Speech.Synthesis.SpeechSynthesizer; `+
		`$s.Volume = %d; `+
		`$s.Speak('%s')`, volume, strings.ReplaceAll(text, "'", "''"))
}
