package airbrush

import (
	"image/color"
	"testing"
)

func TestInpaintEmptyMaskIsIdentity(t *testing.T) {
	src := uniformTile(16, 16, color.NRGBA{R: 90, G: 140, B: 70, A: 255})
	src.SetNRGBA(3, 7, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	out := Inpaint(src, NewMask(16, 16), 3)
	for i := range src.Pix {
		if out.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel byte %d changed: %d != %d", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestInpaintDoesNotModifySource(t *testing.T) {
	src := uniformTile(12, 12, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	mask := NewMask(12, 12)
	for y := 4; y < 8; y++ {
		for x := 4; x < 8; x++ {
			mask.Set(x, y, true)
		}
	}

	before := append([]byte(nil), src.Pix...)
	Inpaint(src, mask, 3)
	for i := range before {
		if src.Pix[i] != before[i] {
			t.Fatal("Inpaint modified its source image")
		}
	}
}

// On a uniform image the fill must reproduce the surrounding color: every
// synthesized pixel is a weighted average of identical values.
func TestInpaintUniformSurroundings(t *testing.T) {
	want := color.NRGBA{R: 80, G: 150, B: 60, A: 255}
	src := uniformTile(20, 20, want)
	mask := NewMask(20, 20)
	for y := 7; y <= 12; y++ {
		for x := 7; x <= 12; x++ {
			mask.Set(x, y, true)
		}
	}

	out := Inpaint(src, mask, 3)
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			got := out.NRGBAAt(x, y)
			if diff8(got.R, want.R) > 1 || diff8(got.G, want.G) > 1 || diff8(got.B, want.B) > 1 {
				t.Fatalf("pixel (%d,%d) = %v, want ~%v", x, y, got, want)
			}
		}
	}
}

// Texture outside the mask must dominate the reconstruction: a masked strip
// inside a solid red area stays red even when blue exists elsewhere.
func TestInpaintBorrowsNearbyTexture(t *testing.T) {
	src := uniformTile(24, 24, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	for y := 0; y < 24; y++ {
		for x := 18; x < 24; x++ {
			src.SetNRGBA(x, y, color.NRGBA{R: 30, G: 30, B: 200, A: 255})
		}
	}

	mask := NewMask(24, 24)
	for y := 10; y <= 13; y++ {
		for x := 4; x <= 7; x++ {
			mask.Set(x, y, true)
		}
	}

	out := Inpaint(src, mask, 3)
	for y := 10; y <= 13; y++ {
		for x := 4; x <= 7; x++ {
			got := out.NRGBAAt(x, y)
			if got.R <= got.B {
				t.Fatalf("pixel (%d,%d) = %v: fill should borrow the surrounding red", x, y, got)
			}
		}
	}
}

func diff8(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
