package audio

import (
	"errors"
	"sync"
	"testing"

	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/rs/zerolog"
)

type fakeOutput struct {
	mu    sync.Mutex
	calls [][]byte
	err   error
}

func (f *fakeOutput) PlayPCM(pcm []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pcm)
	return f.err
}

func TestEnginePlayRendersEvents(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out, zerolog.Nop())

	events := synth.Synthesize(synth.Digital)
	e.Play(events, 0)
	e.Wait()

	if len(out.calls) != 1 {
		t.Fatalf("PlayPCM calls = %d, want 1", len(out.calls))
	}
	want := Render(events, 0)
	if len(out.calls[0]) != len(want) {
		t.Errorf("pcm len = %d, want %d", len(out.calls[0]), len(want))
	}
}

func TestEnginePlayEmptyIsNoop(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out, zerolog.Nop())
	e.Play(nil, 0)
	e.Wait()
	if len(out.calls) != 0 {
		t.Errorf("PlayPCM calls = %d, want 0", len(out.calls))
	}
}

func TestEngineOutputErrorIsSwallowed(t *testing.T) {
	out := &fakeOutput{err: errors.New("no audio device")}
	e := NewEngine(out, zerolog.Nop())
	e.Play(synth.Synthesize(synth.Alarm), 0) // must not panic or block
	e.Wait()
	if len(out.calls) != 1 {
		t.Errorf("PlayPCM calls = %d, want 1", len(out.calls))
	}
}

func TestEngineVolumeZeroSilences(t *testing.T) {
	out := &fakeOutput{}
	e := NewEngine(out, zerolog.Nop())
	e.SetVolume(0)
	e.Play(synth.Synthesize(synth.Alarm)[:1], 0)
	e.Wait()

	for i, b := range out.calls[0] {
		if b != 0 {
			t.Fatalf("expected silence at volume 0, got byte %d at %d", b, i)
		}
	}
}
