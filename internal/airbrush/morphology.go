package airbrush

import (
	"image"

	"satbrush/internal/config"
)

// Refiner cleans a raw classification mask: a morphological closing fills
// pinholes inside detected regions, an opening removes isolated speckles, and
// a final dilation expands coverage slightly past object edges so fill
// boundary artifacts land outside the objects.
type Refiner struct {
	kernel     []image.Point
	dilateIter int
}

// NewRefiner builds a refiner with an elliptical structuring element of
// cfg.MorphKernel pixels per side.
func NewRefiner(cfg config.Config) *Refiner {
	return &Refiner{
		kernel:     ellipseKernel(cfg.MorphKernel),
		dilateIter: cfg.DilateIterations,
	}
}

// Refine applies close, open, then the configured dilation. The input mask is
// not modified.
func (r *Refiner) Refine(m *Mask) *Mask {
	closed := erode(dilate(m, r.kernel, 1), r.kernel, 1)
	opened := dilate(erode(closed, r.kernel, 1), r.kernel, 1)
	return dilate(opened, r.kernel, r.dilateIter)
}

// ellipseKernel returns the offsets of an elliptical structuring element of
// the given edge length. For size 3 this is the 4-connected cross.
func ellipseKernel(size int) []image.Point {
	r := size / 2
	if r == 0 {
		return []image.Point{{X: 0, Y: 0}}
	}
	var pts []image.Point
	rr := float64(r) * float64(r)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if float64(dx*dx)+float64(dy*dy) <= rr {
				pts = append(pts, image.Point{X: dx, Y: dy})
			}
		}
	}
	return pts
}

func dilate(m *Mask, kernel []image.Point, iterations int) *Mask {
	out := m
	for i := 0; i < iterations; i++ {
		next := NewMask(out.W, out.H)
		for y := 0; y < out.H; y++ {
			for x := 0; x < out.W; x++ {
				if !out.At(x, y) {
					continue
				}
				for _, d := range kernel {
					nx, ny := x+d.X, y+d.Y
					if nx >= 0 && ny >= 0 && nx < out.W && ny < out.H {
						next.Pix[ny*out.W+nx] = 0xff
					}
				}
			}
		}
		out = next
	}
	if out == m {
		// iterations == 0: still return a copy so Refine never aliases input.
		out = &Mask{W: m.W, H: m.H, Pix: append([]byte(nil), m.Pix...)}
	}
	return out
}

func erode(m *Mask, kernel []image.Point, iterations int) *Mask {
	out := m
	for i := 0; i < iterations; i++ {
		next := NewMask(out.W, out.H)
		for y := 0; y < out.H; y++ {
		pixels:
			for x := 0; x < out.W; x++ {
				for _, d := range kernel {
					nx, ny := x+d.X, y+d.Y
					if nx < 0 || ny < 0 || nx >= out.W || ny >= out.H || !out.At(nx, ny) {
						continue pixels
					}
				}
				next.Pix[y*out.W+x] = 0xff
			}
		}
		out = next
	}
	return out
}
