package audio

import (
	"math"

	"github.com/Mavwarf/medtime/internal/synth"
)

const SampleRate = 44100

// bytesPerFrame is 2 channels x 2 bytes per 16-bit sample.
const bytesPerFrame = 4

// Render mixes events into stereo 16-bit signed little-endian PCM at
// SampleRate. base shifts every event later by that many seconds. Each
// tone contributes only inside [start, start+duration), so every voice is
// stopped by the end of the buffer.
func Render(events []synth.ToneEvent, base float64) []byte {
	if base < 0 {
		base = 0
	}
	if len(events) == 0 {
		return nil
	}
	total := int(math.Ceil((base + synth.Length(events)) * SampleRate))
	mix := make([]float64, total)

	for _, ev := range events {
		if ev.Duration <= 0 {
			continue
		}
		start := int(math.Round((base + ev.Start) * SampleRate))
		n := int(math.Round(ev.Duration * SampleRate))
		for i := 0; i < n && start+i < total; i++ {
			t := float64(i) / SampleRate
			g := synth.Gain(ev, t)
			if g == 0 {
				continue
			}
			mix[start+i] += synth.Osc(ev.Shape, ev.Frequency*t) * g
		}
	}

	buf := make([]byte, total*bytesPerFrame)
	for i, v := range mix {
		s := clamp16(v)
		lo, hi := byte(s), byte(s>>8)
		off := i * bytesPerFrame
		buf[off], buf[off+1], buf[off+2], buf[off+3] = lo, hi, lo, hi // L + R
	}
	return buf
}

// applyVolume16 scales 16-bit signed little-endian PCM samples by the given volume.
func applyVolume16(data []byte, volume float64) {
	if volume >= 1.0 {
		return
	}
	if volume < 0 {
		volume = 0
	}
	for i := 0; i+1 < len(data); i += 2 {
		sample := int16(data[i]) | int16(data[i+1])<<8
		sample = int16(float64(sample) * volume)
		data[i] = byte(sample)
		data[i+1] = byte(sample >> 8)
	}
}

// clamp16 converts a float64 in [-1, 1] to int16, clamping to avoid overflow.
func clamp16(f float64) int16 {
	s := f * 32767.0
	if s > 32767 {
		return 32767
	}
	if s < -32768 {
		return -32768
	}
	return int16(s)
}
