// Package speech reads reminder text aloud with the host's text-to-speech
// engine (espeak on Linux, say on macOS, System.Speech on Windows).
package speech

// Speaker speaks text at a volume resolved on every call, so a changed
// volume setting applies to the next reminder.
type Speaker struct {
	// Volume returns 0-100. A nil Volume speaks at full volume.
	Volume func() int
}

// Say speaks text and blocks until the engine finishes.
func (s Speaker) Say(text string) error {
	return say(text, s.volume())
}

func (s Speaker) volume() int {
	if s.Volume == nil {
		return 100
	}
	v := s.Volume()
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
