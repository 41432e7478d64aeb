package audio

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	"github.com/Mavwarf/medtime/internal/synth"
	"github.com/ebitengine/oto/v3"
	"github.com/rs/zerolog"
)

var (
	otoCtx     *oto.Context
	otoOnce    sync.Once
	otoInitErr error
)

func getContext() (*oto.Context, error) {
	otoOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   SampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr == nil {
			<-readyChan
		}
	})
	return otoCtx, otoInitErr
}

// Output plays a rendered PCM buffer, blocking until playback completes.
type Output interface {
	PlayPCM(pcm []byte) error
}

// OtoOutput plays through the process-wide oto context, created on first use.
type OtoOutput struct{}

// PlayPCM plays 44100 Hz stereo 16-bit signed LE PCM through the shared context.
func (OtoOutput) PlayPCM(pcm []byte) error {
	ctx, err := getContext()
	if err != nil {
		return fmt.Errorf("failed to initialize audio: %w", err)
	}

	player := ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	for player.IsPlaying() {
		time.Sleep(5 * time.Millisecond)
	}

	return player.Close()
}

// Engine realizes tone events as sound. Playback is best-effort: Play never
// blocks the caller and failures are only logged.
type Engine struct {
	out Output
	log zerolog.Logger

	mu     sync.Mutex
	volume float64
	wg     sync.WaitGroup
}

// NewEngine returns an Engine writing to out. A nil out uses OtoOutput.
func NewEngine(out Output, logger zerolog.Logger) *Engine {
	if out == nil {
		out = OtoOutput{}
	}
	return &Engine{out: out, log: logger, volume: 1}
}

// SetVolume sets the playback volume from 0.0 (silent) to 1.0 (full).
func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	e.volume = v
	e.mu.Unlock()
}

// Play renders events starting base seconds from now and plays them in the
// background.
func (e *Engine) Play(events []synth.ToneEvent, base float64) {
	if len(events) == 0 {
		return
	}
	e.mu.Lock()
	vol := e.volume
	e.mu.Unlock()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.log.Warn().Interface("panic", r).Msg("audio playback aborted")
			}
		}()
		pcm := Render(events, base)
		applyVolume16(pcm, vol)
		if err := e.out.PlayPCM(pcm); err != nil {
			e.log.Warn().Err(err).Int("tones", len(events)).Msg("audio unavailable, skipping sound")
			return
		}
		e.log.Debug().Int("tones", len(events)).Msg("sound played")
	}()
}

// Wait blocks until every Play started so far has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}
