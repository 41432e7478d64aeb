package schedule

import (
	"sync"
	"testing"
	"time"

	"github.com/Mavwarf/medtime/internal/medicine"
	"github.com/Mavwarf/medtime/internal/metrics"
	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/rs/zerolog"
)

type fakeTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (t *fakeTimer) Cancel() { t.cancelled = true }

type fakeTimers struct{ created []*fakeTimer }

func (f *fakeTimers) Schedule(delay time.Duration, fn func()) Handle {
	t := &fakeTimer{delay: delay, fn: fn}
	f.created = append(f.created, t)
	return t
}

func (f *fakeTimers) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range f.created {
		if !t.cancelled {
			out = append(out, t)
		}
	}
	return out
}

type fakeDispatcher struct {
	mu       sync.Mutex
	fired    []medicine.Medicine
	previews []synth.Profile
}

func (d *fakeDispatcher) Fire(m medicine.Medicine) {
	d.mu.Lock()
	d.fired = append(d.fired, m)
	d.mu.Unlock()
}

func (d *fakeDispatcher) PreviewSound(p synth.Profile) {
	d.previews = append(d.previews, p)
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 1, h, m, 0, 0, time.Local)
}

func newTestManager(now time.Time) (*Manager, *fakeTimers, *fakeDispatcher) {
	timers := &fakeTimers{}
	d := &fakeDispatcher{}
	m := New(d, zerolog.Nop(), WithTimers(timers), WithClock(func() time.Time { return now }))
	return m, timers, d
}

func med(id, clock string, taken bool) medicine.Medicine {
	return medicine.Medicine{ID: id, Name: "med-" + id, Dosage: "1 tab", Time: clock, Taken: taken}
}

func TestRebuildSchedulesDelayUntilToday(t *testing.T) {
	m, timers, _ := newTestManager(at(7, 0))

	if n := m.Rebuild([]medicine.Medicine{med("a", "08:00", false)}); n != 1 {
		t.Fatalf("Rebuild = %d, want 1", n)
	}
	if len(timers.created) != 1 {
		t.Fatalf("timers = %d, want 1", len(timers.created))
	}
	if got := timers.created[0].delay; got != time.Hour {
		t.Errorf("delay = %v, want 1h", got)
	}
	e, ok := m.Next()
	if !ok || e.ID != "a" || !e.Due.Equal(at(8, 0)) {
		t.Errorf("Next = %+v, %v", e, ok)
	}
}

func TestRebuildDelayIncludesSeconds(t *testing.T) {
	now := at(7, 59).Add(30*time.Second + 250*time.Millisecond)
	m, timers, _ := newTestManager(now)
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false)})
	if got := timers.created[0].delay; got != 29*time.Second+750*time.Millisecond {
		t.Errorf("delay = %v", got)
	}
}

func TestRebuildSkipsPassedTime(t *testing.T) {
	m, timers, _ := newTestManager(at(9, 0))
	if n := m.Rebuild([]medicine.Medicine{med("a", "08:00", false)}); n != 0 {
		t.Errorf("Rebuild = %d, want 0", n)
	}
	if len(timers.created) != 0 {
		t.Errorf("no timer should be created for a passed time")
	}
}

func TestRebuildSkipsExactlyNow(t *testing.T) {
	m, _, _ := newTestManager(at(8, 0))
	if n := m.Rebuild([]medicine.Medicine{med("a", "08:00", false)}); n != 0 {
		t.Errorf("Rebuild = %d, want 0", n)
	}
}

func TestRebuildSkipsTaken(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	meds := []medicine.Medicine{
		med("a", "08:00", true),
		med("b", "09:00", false),
		med("c", "10:00", true),
	}
	if n := m.Rebuild(meds); n != 1 {
		t.Fatalf("Rebuild = %d, want 1", n)
	}
	for _, e := range m.Pending() {
		if e.ID != "b" {
			t.Errorf("taken medicine %q scheduled", e.ID)
		}
	}
}

func TestRebuildSkipsMalformedTime(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	meds := []medicine.Medicine{
		med("a", "8am", false),
		med("b", "25:00", false),
		med("c", "", false),
		med("d", "09:00", false),
	}
	if n := m.Rebuild(meds); n != 1 {
		t.Errorf("Rebuild = %d, want 1", n)
	}
}

func TestRebuildEmpty(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false)})
	if n := m.Rebuild(nil); n != 0 {
		t.Errorf("Rebuild(nil) = %d, want 0", n)
	}
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
}

func TestRebuildCancelsPrevious(t *testing.T) {
	m, timers, _ := newTestManager(at(6, 0))
	meds := []medicine.Medicine{med("a", "08:00", false), med("b", "09:00", false)}
	m.Rebuild(meds)
	m.Rebuild(meds)

	if len(timers.created) != 4 {
		t.Fatalf("timers = %d, want 4", len(timers.created))
	}
	if live := timers.live(); len(live) != 2 {
		t.Errorf("live timers = %d, want 2", len(live))
	}
	for _, tm := range timers.created[:2] {
		if !tm.cancelled {
			t.Error("first-round timer left running")
		}
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestRebuildDuplicateIDKeepsOne(t *testing.T) {
	m, timers, _ := newTestManager(at(6, 0))
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false), med("a", "09:00", false)})
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	if live := timers.live(); len(live) != 1 {
		t.Errorf("live timers = %d, want 1", len(live))
	}
}

func TestToggleTakenThenRebuildRemoves(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	a := med("a", "08:00", false)
	m.Rebuild([]medicine.Medicine{a})
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
	a.Taken = true
	m.Rebuild([]medicine.Medicine{a})
	if m.Len() != 0 {
		t.Errorf("Len = %d after taken, want 0", m.Len())
	}
}

func TestFireRemovesEntryAndDispatches(t *testing.T) {
	m, timers, d := newTestManager(at(6, 0))
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false), med("b", "09:00", false)})

	timers.created[0].fn()

	if len(d.fired) != 1 || d.fired[0].ID != "a" {
		t.Fatalf("fired = %+v", d.fired)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
	// A second run of the same callback does nothing.
	timers.created[0].fn()
	if len(d.fired) != 1 {
		t.Errorf("fired twice")
	}
}

func TestStaleCallbackAfterRebuildIsNoop(t *testing.T) {
	m, timers, d := newTestManager(at(6, 0))
	meds := []medicine.Medicine{med("a", "08:00", false)}
	m.Rebuild(meds)
	stale := timers.created[0]
	m.Rebuild(meds)

	// The old timer raced its cancellation.
	stale.fn()
	if len(d.fired) != 0 {
		t.Errorf("stale callback fired %+v", d.fired)
	}
	if m.Len() != 1 {
		t.Errorf("stale callback removed the current entry")
	}

	timers.created[1].fn()
	if len(d.fired) != 1 {
		t.Errorf("current callback did not fire")
	}
}

func TestStaleCallbackAfterCancelAllIsNoop(t *testing.T) {
	m, timers, d := newTestManager(at(6, 0))
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false)})
	m.CancelAll()
	timers.created[0].fn()
	if len(d.fired) != 0 {
		t.Error("cancelled reminder fired")
	}
}

func TestCancelAllIdempotent(t *testing.T) {
	m, timers, _ := newTestManager(at(6, 0))
	m.CancelAll()
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false), med("b", "09:00", false)})
	timers.created[0].fn()
	m.CancelAll()
	m.CancelAll()
	if m.Len() != 0 {
		t.Errorf("Len = %d, want 0", m.Len())
	}
	if live := timers.live(); len(live) != 0 {
		t.Errorf("live timers = %d", len(live))
	}
}

func TestPendingOrderedByDue(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	m.Rebuild([]medicine.Medicine{
		med("c", "21:00", false),
		med("a", "08:00", false),
		med("b", "12:30", false),
	})
	got := m.Pending()
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Pending = %+v", got)
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Pending[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestNextEmpty(t *testing.T) {
	m, _, _ := newTestManager(at(6, 0))
	if _, ok := m.Next(); ok {
		t.Error("Next on empty manager should report false")
	}
}

func TestPreviewSoundPassthrough(t *testing.T) {
	m, timers, d := newTestManager(at(6, 0))
	m.PreviewSound(synth.Gentle)
	if len(d.previews) != 1 || d.previews[0] != synth.Gentle {
		t.Errorf("previews = %v", d.previews)
	}
	if len(timers.created) != 0 || len(d.fired) != 0 {
		t.Error("preview must not schedule or fire")
	}
}

func TestRebuildReportsMetrics(t *testing.T) {
	timers := &fakeTimers{}
	mt := metrics.New()
	m := New(&fakeDispatcher{}, zerolog.Nop(),
		WithTimers(timers),
		WithClock(func() time.Time { return at(6, 0) }),
		WithMetrics(mt))
	m.Rebuild([]medicine.Medicine{med("a", "08:00", false), med("b", "09:00", false)})
	timers.created[0].fn()

	out := gather(t, mt)
	if out["medtime_pending_reminders"] != 1 {
		t.Errorf("pending gauge = %v, want 1", out["medtime_pending_reminders"])
	}
	if out["medtime_schedule_rebuilds_total"] != 1 {
		t.Errorf("rebuilds = %v, want 1", out["medtime_schedule_rebuilds_total"])
	}
}

func gather(t *testing.T, mt *metrics.Metrics) map[string]float64 {
	t.Helper()
	families, err := mt.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	out := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			switch {
			case metric.GetGauge() != nil:
				out[f.GetName()] += metric.GetGauge().GetValue()
			case metric.GetCounter() != nil:
				out[f.GetName()] += metric.GetCounter().GetValue()
			}
		}
	}
	return out
}

func TestRealTimersFireAndCancel(t *testing.T) {
	done := make(chan struct{})
	RealTimers{}.Schedule(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	fired := make(chan struct{}, 1)
	h := RealTimers{}.Schedule(50*time.Millisecond, func() { fired <- struct{}{} })
	h.Cancel()
	h.Cancel()
	select {
	case <-fired:
		t.Fatal("cancelled timer fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestConcurrentRebuildAndFire(t *testing.T) {
	d := &fakeDispatcher{}
	m := New(d, zerolog.Nop(), WithClock(func() time.Time { return time.Now() }))
	soon := time.Now().Add(2 * time.Minute).Format("15:04")
	meds := []medicine.Medicine{med("a", soon, false)}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Rebuild(meds)
			m.Pending()
		}()
	}
	wg.Wait()
	if m.Len() > 1 {
		t.Errorf("Len = %d, want at most 1", m.Len())
	}
	m.CancelAll()
}
