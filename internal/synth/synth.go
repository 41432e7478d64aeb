// Package synth turns an alert sound profile into a declarative list of
// tone events. Nothing here touches an audio device; internal/audio
// renders the events.
package synth

import (
	"fmt"
	"math"
	"sort"
)

// Profile names one of the fixed alert sound recipes.
type Profile string

const (
	Alarm   Profile = "alarm"
	Chime   Profile = "chime"
	Digital Profile = "digital"
	Gentle  Profile = "gentle"
)

// DefaultProfile is used when no profile is selected or the stored one is unknown.
const DefaultProfile = Alarm

// Shape is an oscillator waveform.
type Shape string

const (
	Sine     Shape = "sine"
	Square   Shape = "square"
	Triangle Shape = "triangle"
)

// Envelope is the gain-over-time shape applied to a tone.
type Envelope string

const (
	// Pluck ramps linearly to Peak over Attack, then decays exponentially
	// toward 0.01 by the end of the tone.
	Pluck Envelope = "pluck"
	// Beep ramps linearly to Peak over Attack, holds until 50 ms before the
	// end, then ramps linearly to 0.
	Beep Envelope = "beep"
	// Swell ramps linearly to Peak at half the duration and back to 0.
	Swell Envelope = "swell"
)

const (
	// DefaultPeak is the envelope peak gain of primary voices.
	DefaultPeak = 0.5
	// DefaultAttack is the pluck/beep attack time in seconds.
	DefaultAttack = 0.05
	// beepRelease is the beep release time in seconds.
	beepRelease = 0.05
	// pluckFloor is the gain an exponential decay reaches at the end of a tone.
	pluckFloor = 0.01
)

// ToneEvent is one scheduled oscillation. Times are in seconds relative to
// the start of the playback; Frequency is in Hz.
type ToneEvent struct {
	Start     float64
	Frequency float64
	Shape     Shape
	Duration  float64
	Envelope  Envelope
	Peak      float64
	Attack    float64
}

// End returns the offset at which the tone stops.
func (e ToneEvent) End() float64 {
	return e.Start + e.Duration
}

type recipe struct {
	description string
	build       func() []ToneEvent
}

var recipes = map[Profile]recipe{
	Alarm: {
		description: "Double triangle beep every second for 10 seconds",
		build:       alarm,
	},
	Chime: {
		description: "C5 pluck with C6 harmonic every 2.5 seconds",
		build:       chime,
	},
	Digital: {
		description: "8-bit square pattern 600-800-600 Hz, 10 loops",
		build:       digital,
	},
	Gentle: {
		description: "Slow A3 triangle swells with E4 harmony",
		build:       gentle,
	},
}

// Synthesize returns the tone events for one playback of p. The result is
// deterministic for a given profile. Unknown profiles produce the alarm.
func Synthesize(p Profile) []ToneEvent {
	r, ok := recipes[p]
	if !ok {
		r = recipes[DefaultProfile]
	}
	return r.build()
}

// ParseProfile validates a profile name.
func ParseProfile(s string) (Profile, error) {
	p := Profile(s)
	if _, ok := recipes[p]; !ok {
		return "", fmt.Errorf("unknown sound %q (want one of %v)", s, Names())
	}
	return p, nil
}

// Valid reports whether p names a known recipe.
func (p Profile) Valid() bool {
	_, ok := recipes[p]
	return ok
}

// Description returns the human-readable summary of p.
func (p Profile) Description() string {
	return recipes[p].description
}

// Names returns every profile name in sorted order.
func Names() []string {
	out := make([]string, 0, len(recipes))
	for p := range recipes {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// Length returns the offset at which the last tone of events ends.
func Length(events []ToneEvent) float64 {
	var end float64
	for _, e := range events {
		if e.End() > end {
			end = e.End()
		}
	}
	return end
}

func tone(start, freq float64, shape Shape, dur float64, env Envelope) ToneEvent {
	return ToneEvent{
		Start:     start,
		Frequency: freq,
		Shape:     shape,
		Duration:  dur,
		Envelope:  env,
		Peak:      DefaultPeak,
		Attack:    DefaultAttack,
	}
}

func alarm() []ToneEvent {
	events := make([]ToneEvent, 0, 20)
	for i := 0; i < 10; i++ {
		t := float64(i)
		events = append(events,
			tone(t, 880, Triangle, 0.2, Beep),
			tone(t+0.3, 880, Triangle, 0.2, Beep),
		)
	}
	return events
}

func chime() []ToneEvent {
	events := make([]ToneEvent, 0, 8)
	for i := 0; i < 4; i++ {
		t := float64(i) * 2.5
		harmonic := tone(t, 1046.5, Sine, 2, Pluck) // C6
		harmonic.Peak = 0.3
		harmonic.Attack = 0.1
		events = append(events,
			tone(t, 523.25, Sine, 2, Pluck), // C5
			harmonic,
		)
	}
	return events
}

func digital() []ToneEvent {
	const (
		total      = 10.0
		patternLen = 1.0
	)
	loops := int(math.Floor(total / patternLen))
	events := make([]ToneEvent, 0, loops*3)
	for i := 0; i < loops; i++ {
		t := float64(i) * patternLen
		events = append(events,
			tone(t, 600, Square, 0.15, Beep),
			tone(t+0.2, 800, Square, 0.15, Beep),
			tone(t+0.4, 600, Square, 0.15, Beep),
		)
	}
	return events
}

func gentle() []ToneEvent {
	const swellLen = 3.3
	events := make([]ToneEvent, 0, 6)
	for i := 0; i < 3; i++ {
		t := float64(i) * swellLen
		harmony := tone(t, 329.63, Sine, swellLen, Swell) // E4
		harmony.Peak = 0.3
		events = append(events,
			tone(t, 220, Triangle, swellLen, Swell), // A3
			harmony,
		)
	}
	return events
}

// Gain evaluates the envelope of e at t seconds after the tone starts.
// Outside [0, Duration) the gain is 0.
func Gain(e ToneEvent, t float64) float64 {
	d := e.Duration
	if t < 0 || t >= d || d <= 0 {
		return 0
	}
	switch e.Envelope {
	case Pluck:
		a := math.Min(e.Attack, d)
		if t < a {
			return e.Peak * t / a
		}
		if d == a || e.Peak <= 0 {
			return e.Peak
		}
		// Exponential ramp from Peak at a to pluckFloor at d.
		return e.Peak * math.Pow(pluckFloor/e.Peak, (t-a)/(d-a))
	case Beep:
		a := math.Min(e.Attack, d)
		release := d - beepRelease
		if t < a {
			return e.Peak * t / a
		}
		if t < release {
			return e.Peak
		}
		return e.Peak * (d - t) / (d - math.Max(release, a))
	case Swell:
		half := d / 2
		if t < half {
			return e.Peak * t / half
		}
		return e.Peak * (d - t) / half
	}
	return 0
}

// Osc evaluates a unit-amplitude waveform at phase (in cycles).
func Osc(s Shape, phase float64) float64 {
	p := phase - math.Floor(phase)
	switch s {
	case Square:
		if p < 0.5 {
			return 1
		}
		return -1
	case Triangle:
		switch {
		case p < 0.25:
			return 4 * p
		case p < 0.75:
			return 2 - 4*p
		default:
			return 4*p - 4
		}
	default:
		return math.Sin(2 * math.Pi * p)
	}
}
