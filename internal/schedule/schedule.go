// Package schedule turns the medicine list into one pending reminder per
// untaken medicine due later today.
package schedule

import (
	"sort"
	"sync"
	"time"

	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/rs/zerolog"
)

// Dispatcher fires reminders.
type Dispatcher interface {
	Fire(m medicine.Medicine)
	PreviewSound(p synth.Profile)
}

// Entry describes one pending reminder.
type Entry struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Dosage string    `json:"dosage"`
	Due    time.Time `json:"due"`
}

type pending struct {
	med    medicine.Medicine
	due    time.Time
	gen    uint64
	handle Handle
}

// Manager owns the pending reminders. The entry set is always exactly the
// result of the latest Rebuild, minus reminders that already fired.
type Manager struct {
	dispatcher Dispatcher
	timers     Timers
	now        func() time.Time
	metrics    *metrics.Metrics
	log        zerolog.Logger

	mu      sync.Mutex
	entries map[string]*pending
	gen     uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithTimers replaces the time.AfterFunc based timers.
func WithTimers(t Timers) Option {
	return func(m *Manager) { m.timers = t }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithMetrics reports pending reminders and rebuilds to mt.
func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mt }
}

// New returns an empty Manager that fires through d.
func New(d Dispatcher, logger zerolog.Logger, opts ...Option) *Manager {
	m := &Manager{
		dispatcher: d,
		timers:     RealTimers{},
		now:        time.Now,
		log:        logger,
		entries:    make(map[string]*pending),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Rebuild cancels every pending reminder and schedules one for each untaken
// medicine whose time has not yet passed today. Medicines with a malformed
// time or a time already passed are skipped. It returns the number of
// reminders scheduled.
func (m *Manager) Rebuild(meds []medicine.Medicine) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancelLocked()
	now := m.now()
	for _, med := range meds {
		if med.Taken {
			continue
		}
		h, mm, ok := med.Clock()
		if !ok {
			m.log.Debug().Str("medicine", med.Name).Str("time", med.Time).Msg("malformed time, not scheduled")
			continue
		}
		due := time.Date(now.Year(), now.Month(), now.Day(), h, mm, 0, 0, now.Location())
		delay := due.Sub(now)
		if delay <= 0 {
			m.log.Debug().Str("medicine", med.Name).Str("time", med.Time).Msg("already passed today, not scheduled")
			continue
		}
		if prev, ok := m.entries[med.ID]; ok {
			prev.handle.Cancel()
		}

		m.gen++
		p := &pending{med: med, due: due, gen: m.gen}
		id, gen := med.ID, p.gen
		p.handle = m.timers.Schedule(delay, func() { m.fire(id, gen) })
		m.entries[med.ID] = p
	}

	m.metrics.Rebuilt()
	m.metrics.SetPending(len(m.entries))
	m.log.Debug().Int("pending", len(m.entries)).Int("medicines", len(meds)).Msg("schedule rebuilt")
	return len(m.entries)
}

// fire runs on the timer goroutine. A callback whose entry was replaced or
// cancelled in the meantime does nothing.
func (m *Manager) fire(id string, gen uint64) {
	m.mu.Lock()
	p, ok := m.entries[id]
	if !ok || p.gen != gen {
		m.mu.Unlock()
		return
	}
	delete(m.entries, id)
	m.metrics.SetPending(len(m.entries))
	m.mu.Unlock()

	m.dispatcher.Fire(p.med)
}

// CancelAll cancels every pending reminder. It is safe to call repeatedly.
func (m *Manager) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.metrics.SetPending(0)
}

func (m *Manager) cancelLocked() {
	for id, p := range m.entries {
		p.handle.Cancel()
		delete(m.entries, id)
	}
}

// Len returns the number of pending reminders.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Pending returns the pending reminders ordered by due time.
func (m *Manager) Pending() []Entry {
	m.mu.Lock()
	out := make([]Entry, 0, len(m.entries))
	for id, p := range m.entries {
		out = append(out, Entry{ID: id, Name: p.med.Name, Dosage: p.med.Dosage, Due: p.due})
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Due.Equal(out[j].Due) {
			return out[i].Due.Before(out[j].Due)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Next returns the earliest pending reminder.
func (m *Manager) Next() (Entry, bool) {
	p := m.Pending()
	if len(p) == 0 {
		return Entry{}, false
	}
	return p[0], true
}

// PreviewSound plays profile through the dispatcher without notifying.
func (m *Manager) PreviewSound(p synth.Profile) {
	m.dispatcher.PreviewSound(p)
}
