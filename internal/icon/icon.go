// Package icon draws the medtime application icon: a two-tone capsule on a
// transparent background.
package icon

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

var (
	capRed   = color.NRGBA{R: 0xe0, G: 0x4f, B: 0x5f, A: 0xff}
	capWhite = color.NRGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	outline  = color.NRGBA{R: 0x30, G: 0x30, B: 0x38, A: 0xff}
)

// Draw renders the icon at size x size pixels.
func Draw(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	s := float64(size)
	// Capsule along the diagonal: segment from a to b with radius r.
	ax, ay := 0.30*s, 0.70*s
	bx, by := 0.70*s, 0.30*s
	r := 0.17 * s
	border := math.Max(1, s/32)

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			d, t := segmentDistance(px, py, ax, ay, bx, by)
			switch {
			case d > r:
				continue
			case d > r-border:
				img.SetNRGBA(x, y, outline)
			case t < 0.5:
				img.SetNRGBA(x, y, capRed)
			default:
				img.SetNRGBA(x, y, capWhite)
			}
		}
	}
	return img
}

// segmentDistance returns the distance from p to segment ab and the
// projection parameter t in [0, 1].
func segmentDistance(px, py, ax, ay, bx, by float64) (float64, float64) {
	dx, dy := bx-ax, by-ay
	t := ((px-ax)*dx + (py-ay)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	cx, cy := ax+t*dx, ay+t*dy
	return math.Hypot(px-cx, py-cy), t
}

// PNG returns the icon encoded as PNG.
func PNG(size int) []byte {
	var buf bytes.Buffer
	// Encoding an in-memory NRGBA image cannot fail.
	_ = png.Encode(&buf, Draw(size))
	return buf.Bytes()
}
