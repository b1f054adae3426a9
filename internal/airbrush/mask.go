package airbrush

import (
	"image"
	"image/color"
)

// Mask is a single-channel binary grid with the same dimensions as its source
// tile. Nonzero bytes mark pixels judged man-made.
type Mask struct {
	W, H int
	Pix  []byte
}

// NewMask returns an all-false mask of the given dimensions.
func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]byte, w*h)}
}

// At reports whether the pixel at (x, y) is flagged.
func (m *Mask) At(x, y int) bool {
	return m.Pix[y*m.W+x] != 0
}

// Set flags or clears the pixel at (x, y).
func (m *Mask) Set(x, y int, v bool) {
	if v {
		m.Pix[y*m.W+x] = 0xff
	} else {
		m.Pix[y*m.W+x] = 0
	}
}

// Count returns the number of flagged pixels.
func (m *Mask) Count() int {
	n := 0
	for _, p := range m.Pix {
		if p != 0 {
			n++
		}
	}
	return n
}

// ToGray renders the mask as an 8-bit grayscale image for inspection.
func (m *Mask) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, m.W, m.H))
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if m.At(x, y) {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return img
}
