// Package eventlog records every alert medtime plays or shows.
package eventlog

import "time"

// EntryKind classifies a history entry.
type EntryKind int

const (
	// KindFired is a scheduled reminder that played its sound.
	KindFired EntryKind = iota
	// KindMuted is a scheduled reminder that fired inside a mute window.
	KindMuted
	// KindPreview is a sound played from the settings preview.
	KindPreview
)

func (k EntryKind) String() string {
	switch k {
	case KindFired:
		return "fired"
	case KindMuted:
		return "muted"
	case KindPreview:
		return "preview"
	}
	return "unknown"
}

// Entry is one recorded alert.
type Entry struct {
	Time       time.Time `json:"time"`
	Kind       EntryKind `json:"kind"`
	MedicineID string    `json:"medicine_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Dosage     string    `json:"dosage,omitempty"`
	Profile    string    `json:"profile"`
	Notified   bool      `json:"notified"`
}

// Summary aggregates the reminders of one medicine.
type Summary struct {
	Name  string `json:"name"`
	Fired int    `json:"fired"`
	Muted int    `json:"muted"`
}

// Store abstracts alert history storage.
type Store interface {
	Log(e Entry) error
	Entries(days int) ([]Entry, error) // 0 = all, oldest first
	Summaries(days int) ([]Summary, error)
	Clean(days int) (int, error) // remove entries older than days, return removed count
}

// DayCutoff returns midnight (local time) of the day that is days-1 days
// before today. DayCutoff(1) is today's midnight.
func DayCutoff(days int) time.Time {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -(days - 1))
}
