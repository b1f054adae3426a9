package airbrush

import (
	"container/heap"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Fast-marching inpainting in the style of Telea. The mask boundary is
// processed first and the front marches inward, so texture just outside the
// mask dominates the reconstruction of interior pixels. Each pixel is
// synthesized as a weighted average of already-known pixels within the fill
// radius; the weights fall off with distance, with deviation from the front
// normal, and with difference in arrival time.

const (
	stateKnown uint8 = iota
	stateBand
	stateInside
)

// farDist marks pixels the front has not reached.
const farDist = 1e6

type frontPixel struct {
	t    float64
	x, y int
}

type frontHeap []frontPixel

func (h frontHeap) Len() int            { return len(h) }
func (h frontHeap) Less(i, j int) bool  { return h[i].t < h[j].t }
func (h frontHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *frontHeap) Push(v interface{}) { *h = append(*h, v.(frontPixel)) }
func (h *frontHeap) Pop() interface{} {
	old := *h
	v := old[len(old)-1]
	*h = old[:len(old)-1]
	return v
}

var neighbors4 = [4]image.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}

// Inpaint returns a copy of src with every masked pixel replaced by texture
// propagated inward from the mask boundary. Unmasked pixels are copied
// unchanged. radius bounds how far each synthesis step samples.
func Inpaint(src *image.NRGBA, mask *Mask, radius int) *image.NRGBA {
	out := imaging.Clone(src)
	if mask.Count() == 0 {
		return out
	}

	w, h := mask.W, mask.H
	states := make([]uint8, w*h)
	dist := make([]float64, w*h)

	for i, p := range mask.Pix {
		if p != 0 {
			states[i] = stateInside
			dist[i] = farDist
		}
	}

	// The initial narrow band is the ring of known pixels touching the mask.
	front := &frontHeap{}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if states[y*w+x] != stateKnown {
				continue
			}
			for _, d := range neighbors4 {
				nx, ny := x+d.X, y+d.Y
				if nx >= 0 && ny >= 0 && nx < w && ny < h && states[ny*w+nx] == stateInside {
					states[y*w+x] = stateBand
					heap.Push(front, frontPixel{t: 0, x: x, y: y})
					break
				}
			}
		}
	}

	for front.Len() > 0 {
		p := heap.Pop(front).(frontPixel)
		i := p.y*w + p.x
		if states[i] == stateKnown {
			continue // stale duplicate entry
		}
		states[i] = stateKnown

		for _, d := range neighbors4 {
			nx, ny := p.x+d.X, p.y+d.Y
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if states[ni] == stateKnown {
				continue
			}
			if t := solveEikonal(states, dist, w, h, nx, ny); t < dist[ni] {
				dist[ni] = t
			}
			if states[ni] == stateInside {
				paintPixel(out, states, dist, w, h, nx, ny, radius)
				states[ni] = stateBand
			}
			heap.Push(front, frontPixel{t: dist[ni], x: nx, y: ny})
		}
	}
	return out
}

// solveEikonal propagates the arrival time to (x, y) from its known
// neighbors, solving |∇T| = 1 per quadrant and keeping the smallest root.
func solveEikonal(states []uint8, dist []float64, w, h, x, y int) float64 {
	best := farDist
	for _, hd := range [2]int{-1, 1} {
		for _, vd := range [2]int{-1, 1} {
			tx, ty := farDist, farDist
			if nx := x + hd; nx >= 0 && nx < w && states[y*w+nx] == stateKnown {
				tx = dist[y*w+nx]
			}
			if ny := y + vd; ny >= 0 && ny < h && states[ny*w+x] == stateKnown {
				ty = dist[ny*w+x]
			}
			switch {
			case tx >= farDist && ty >= farDist:
				continue
			case tx >= farDist:
				best = math.Min(best, ty+1)
			case ty >= farDist:
				best = math.Min(best, tx+1)
			default:
				if diff := tx - ty; diff*diff < 2 {
					best = math.Min(best, (tx+ty+math.Sqrt(2-diff*diff))/2)
				} else {
					best = math.Min(best, math.Min(tx, ty)+1)
				}
			}
		}
	}
	return best
}

// paintPixel synthesizes the color at (x, y) from known pixels within radius.
func paintPixel(out *image.NRGBA, states []uint8, dist []float64, w, h, x, y, radius int) {
	gx, gy := timeGradient(states, dist, w, h, x, y)
	tc := dist[y*w+x]

	var sumR, sumG, sumB, sumW float64
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			ni := ny*w + nx
			if states[ni] == stateInside {
				continue
			}
			lenR := math.Sqrt(float64(dx*dx + dy*dy))
			if lenR > float64(radius) {
				continue
			}

			dir := (float64(dx)*gx + float64(dy)*gy) / lenR
			if math.Abs(dir) < 1e-6 {
				dir = 1e-6
			}
			dst := 1 / (lenR * lenR)
			lev := 1 / (1 + math.Abs(dist[ni]-tc))
			wgt := math.Abs(dir * dst * lev)

			o := out.PixOffset(nx, ny)
			sumR += wgt * float64(out.Pix[o])
			sumG += wgt * float64(out.Pix[o+1])
			sumB += wgt * float64(out.Pix[o+2])
			sumW += wgt
		}
	}
	if sumW == 0 {
		return
	}
	o := out.PixOffset(x, y)
	out.Pix[o] = uint8(sumR/sumW + 0.5)
	out.Pix[o+1] = uint8(sumG/sumW + 0.5)
	out.Pix[o+2] = uint8(sumB/sumW + 0.5)
	out.Pix[o+3] = 0xff
}

// timeGradient estimates ∇T at (x, y) from already-reached neighbors.
func timeGradient(states []uint8, dist []float64, w, h, x, y int) (gx, gy float64) {
	grad := func(prevOK, nextOK bool, prev, next, center float64) float64 {
		switch {
		case prevOK && nextOK:
			return (next - prev) / 2
		case nextOK:
			return next - center
		case prevOK:
			return center - prev
		default:
			return 0
		}
	}
	c := dist[y*w+x]
	leftOK := x > 0 && states[y*w+x-1] != stateInside
	rightOK := x < w-1 && states[y*w+x+1] != stateInside
	upOK := y > 0 && states[(y-1)*w+x] != stateInside
	downOK := y < h-1 && states[(y+1)*w+x] != stateInside

	var left, right, up, down float64
	if leftOK {
		left = dist[y*w+x-1]
	}
	if rightOK {
		right = dist[y*w+x+1]
	}
	if upOK {
		up = dist[(y-1)*w+x]
	}
	if downOK {
		down = dist[(y+1)*w+x]
	}
	return grad(leftOK, rightOK, left, right, c), grad(upOK, downOK, up, down, c)
}
