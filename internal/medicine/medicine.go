// Package medicine holds the medicine list: the entity type, time-of-day
// parsing, and the persisted store.
package medicine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned for an id that is not in the store.
	ErrNotFound = errors.New("medicine not found")
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid medicine")
)

// FoodRelation tells the user how to take a dose relative to meals.
// It is display-only and has no effect on scheduling.
type FoodRelation string

const (
	Before FoodRelation = "before"
	With   FoodRelation = "with"
	After  FoodRelation = "after"
	Any    FoodRelation = "any"
)

// Valid reports whether f is one of the known relations.
func (f FoodRelation) Valid() bool {
	switch f {
	case Before, With, After, Any:
		return true
	}
	return false
}

// Label returns the instruction shown to the user, e.g. "after food".
func (f FoodRelation) Label() string {
	switch f {
	case Before, With, After:
		return string(f) + " food"
	}
	return "any time"
}

// Medicine is one entry of the user's list.
type Medicine struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Dosage       string       `json:"dosage"`
	Time         string       `json:"time"` // "HH:MM", 24-hour
	Taken        bool         `json:"taken"`
	FoodRelation FoodRelation `json:"foodRelation,omitempty"`
}

// Clock returns the parsed time of day. ok is false when Time is malformed,
// which makes the medicine unschedulable.
func (m Medicine) Clock() (hour, minute int, ok bool) {
	h, mm, err := ParseTime(m.Time)
	if err != nil {
		return 0, 0, false
	}
	return h, mm, true
}

// Input carries the user-editable fields of a medicine. The id and taken
// flag are owned by the store.
type Input struct {
	Name         string       `json:"name"`
	Dosage       string       `json:"dosage"`
	Time         string       `json:"time"`
	FoodRelation FoodRelation `json:"foodRelation,omitempty"`
}

// Normalize trims whitespace and defaults an empty food relation to Any.
func (in Input) Normalize() Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Dosage = strings.TrimSpace(in.Dosage)
	in.Time = strings.TrimSpace(in.Time)
	if in.FoodRelation == "" {
		in.FoodRelation = Any
	}
	return in
}

// Validate checks a normalized input.
func (in Input) Validate() error {
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if _, _, err := ParseTime(in.Time); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if !in.FoodRelation.Valid() {
		return fmt.Errorf("%w: food relation %q (want before, with, after or any)", ErrInvalid, in.FoodRelation)
	}
	return nil
}

// ParseTime parses a 24-hour "HH:MM" time of day. Hours and minutes may be
// one or two digits; hour must be 0-23 and minute 0-59.
func ParseTime(s string) (hour, minute int, err error) {
	s = strings.TrimSpace(s)
	hs, ms, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("time %q: want HH:MM", s)
	}
	hour, err = parseField(hs, 23)
	if err != nil {
		return 0, 0, fmt.Errorf("time %q: hour: %w", s, err)
	}
	minute, err = parseField(ms, 59)
	if err != nil {
		return 0, 0, fmt.Errorf("time %q: minute: %w", s, err)
	}
	return hour, minute, nil
}

func parseField(s string, max int) (int, error) {
	if len(s) < 1 || len(s) > 2 {
		return 0, fmt.Errorf("want 1 or 2 digits, got %q", s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("not a number: %q", s)
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n > max {
		return 0, fmt.Errorf("%d out of range 0-%d", n, max)
	}
	return n, nil
}

// Store is the persisted, id-keyed medicine collection.
type Store interface {
	List() ([]Medicine, error)
	Get(id string) (Medicine, error)
	Add(in Input) (Medicine, error)
	Update(id string, in Input) (Medicine, error)
	ToggleTaken(id string) (Medicine, error)
	Delete(id string) error
	// ResetTaken marks every medicine untaken and returns how many changed.
	ResetTaken() (int, error)
	// Revision increases with every committed mutation, letting other
	// processes detect changes cheaply.
	Revision() (int64, error)
}
