package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// EncodeWAV writes pcm (stereo 16-bit signed LE at SampleRate, as produced
// by Render) to w as a canonical 44-byte-header PCM WAV file.
func EncodeWAV(w io.Writer, pcm []byte) error {
	const (
		channels      = 2
		bitsPerSample = 16
		fmtSize       = 16
	)
	if len(pcm)%bytesPerFrame != 0 {
		return fmt.Errorf("wav: pcm length %d is not a whole number of frames", len(pcm))
	}
	blockAlign := channels * bitsPerSample / 8
	byteRate := SampleRate * blockAlign

	hdr := make([]byte, 44)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+len(pcm)))
	copy(hdr[8:12], "WAVE")

	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], fmtSize)
	binary.LittleEndian.PutUint16(hdr[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], channels)
	binary.LittleEndian.PutUint32(hdr[24:28], SampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(hdr[34:36], bitsPerSample)

	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(len(pcm)))

	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}
