// Package silent implements a mute window: while it is active, reminders
// still notify but play no sound.
package silent

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Mavwarf/medtime/internal/paths"
)

type state struct {
	MutedUntil string `json:"muted_until"`
}

// Mute is a file-backed mute window shared by every medtime process.
type Mute struct {
	path string
	now  func() time.Time
}

// New returns a Mute backed by the state file at path.
func New(path string) *Mute {
	return &Mute{path: path, now: time.Now}
}

// Active returns true if the mute window is currently open.
// A missing, unreadable, or corrupt state file is treated as "not muted"
// (fail-open).
func (m *Mute) Active() bool {
	_, ok := m.Until()
	return ok
}

// Until returns the end of the mute window and true if active,
// or zero time and false if not muted.
func (m *Mute) Until() (time.Time, bool) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return time.Time{}, false
	}

	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return time.Time{}, false
	}

	t, err := time.Parse(time.RFC3339, s.MutedUntil)
	if err != nil {
		return time.Time{}, false
	}

	if m.now().After(t) {
		return time.Time{}, false
	}

	return t, true
}

// Enable mutes reminder sounds for d from now and returns the end time.
func (m *Mute) Enable(d time.Duration) (time.Time, error) {
	if d <= 0 {
		return time.Time{}, fmt.Errorf("mute duration must be positive, got %s", d)
	}
	until := m.now().Add(d)
	data, err := json.MarshalIndent(state{MutedUntil: until.Format(time.RFC3339)}, "", "  ")
	if err != nil {
		return time.Time{}, fmt.Errorf("silent: marshal: %w", err)
	}
	if err := paths.AtomicWrite(m.path, data); err != nil {
		return time.Time{}, fmt.Errorf("silent: write: %w", err)
	}
	return until, nil
}

// Disable closes the mute window by removing the state file.
func (m *Mute) Disable() error {
	if err := os.Remove(m.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("silent: remove %s: %w", m.path, err)
	}
	return nil
}
