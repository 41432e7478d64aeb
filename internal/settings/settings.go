// Package settings persists user preferences: the selected alert sound and
// an optional volume override.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mavwarf/medtime/internal/paths"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Settings is the on-disk document.
type Settings struct {
	SoundType synth.Profile `json:"soundType"`
	Volume    *int          `json:"volume,omitempty"` // 0-100, nil = config default
}

// Store reads and writes settings.json on an afero filesystem. Reads never
// fail: a missing, unreadable, or corrupt file yields the defaults.
type Store struct {
	fs   afero.Fs
	path string
	log  zerolog.Logger
	mu   sync.Mutex
}

// NewStore returns a store for path on fs.
func NewStore(fs afero.Fs, path string, logger zerolog.Logger) *Store {
	return &Store{fs: fs, path: path, log: logger}
}

// Load returns the stored settings with defaults filled in.
func (s *Store) Load() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() Settings {
	out := Settings{SoundType: synth.DefaultProfile}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("settings unreadable, using defaults")
		}
		return out
	}
	var stored Settings
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("settings corrupt, using defaults")
		return out
	}
	if stored.SoundType.Valid() {
		out.SoundType = stored.SoundType
	}
	if v := stored.Volume; v != nil && *v >= 0 && *v <= 100 {
		out.Volume = v
	}
	return out
}

// SoundProfile returns the selected alert sound, falling back to the alarm.
func (s *Store) SoundProfile() synth.Profile {
	return s.Load().SoundType
}

// SetSoundProfile stores p as the selected alert sound.
func (s *Store) SetSoundProfile(p synth.Profile) error {
	if !p.Valid() {
		return fmt.Errorf("unknown sound %q", p)
	}
	return s.update(func(st *Settings) { st.SoundType = p })
}

// Volume returns the stored volume override, if any.
func (s *Store) Volume() (int, bool) {
	st := s.Load()
	if st.Volume == nil {
		return 0, false
	}
	return *st.Volume, true
}

// SetVolume stores a 0-100 volume override. A negative value clears it.
func (s *Store) SetVolume(v int) error {
	if v > 100 {
		return fmt.Errorf("volume must be between 0 and 100, got %d", v)
	}
	return s.update(func(st *Settings) {
		if v < 0 {
			st.Volume = nil
			return
		}
		st.Volume = &v
	})
}

func (s *Store) update(fn func(*Settings)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load()
	fn(&st)
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: marshal: %w", err)
	}
	if err := s.fs.MkdirAll(filepath.Dir(s.path), paths.DirPerm); err != nil {
		return fmt.Errorf("settings: mkdir: %w", err)
	}
	// Atomic write: tmp file then rename.
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, paths.FilePerm); err != nil {
		return fmt.Errorf("settings: write %s: %w", tmp, err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("settings: rename %s: %w", tmp, err)
	}
	return nil
}
