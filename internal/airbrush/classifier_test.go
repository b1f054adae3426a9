package airbrush

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"satbrush/internal/config"
)

func uniformTile(w, h int, c color.NRGBA) *image.NRGBA {
	return imaging.New(w, h, c)
}

func TestClassifierUniformTiles(t *testing.T) {
	tests := []struct {
		name     string
		color    color.NRGBA
		wantAll  bool
		wantNone bool
	}{
		{
			name:    "mid gray is fully man-made",
			color:   color.NRGBA{R: 150, G: 150, B: 150, A: 255},
			wantAll: true,
		},
		{
			name:     "saturated green is fully natural",
			color:    color.NRGBA{R: 0, G: 255, B: 0, A: 255},
			wantNone: true,
		},
		{
			name:    "near white is man-made",
			color:   color.NRGBA{R: 245, G: 240, B: 238, A: 255},
			wantAll: true,
		},
		{
			name:     "dark gray is too dim to flag",
			color:    color.NRGBA{R: 60, G: 60, B: 60, A: 255},
			wantNone: true,
		},
		{
			name:     "bright sand is colored, not gray",
			color:    color.NRGBA{R: 220, G: 200, B: 140, A: 255},
			wantNone: true,
		},
		{
			name:     "transparent padding stays untouched",
			color:    color.NRGBA{},
			wantNone: true,
		},
	}

	c := NewClassifier(config.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mask := c.Mask(uniformTile(8, 8, tt.color))
			count := mask.Count()
			if tt.wantAll && count != 64 {
				t.Errorf("flagged %d/64 pixels, want all", count)
			}
			if tt.wantNone && count != 0 {
				t.Errorf("flagged %d/64 pixels, want none", count)
			}
		})
	}
}

func TestClassifierMixedTile(t *testing.T) {
	img := uniformTile(8, 8, color.NRGBA{R: 160, G: 200, B: 40, A: 255})
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 180, G: 180, B: 180, A: 255})
		}
	}

	mask := NewClassifier(config.Default()).Mask(img)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := x < 4
			if mask.At(x, y) != want {
				t.Fatalf("pixel (%d,%d) flagged = %v, want %v", x, y, mask.At(x, y), want)
			}
		}
	}
}

func TestClassifierThresholdsAreTunable(t *testing.T) {
	cfg := config.Default()
	cfg.ValThreshold = 200 // only very bright pixels qualify

	mask := NewClassifier(cfg).Mask(uniformTile(4, 4, color.NRGBA{R: 150, G: 150, B: 150, A: 255}))
	if mask.Count() != 0 {
		t.Errorf("raising the value threshold should unflag mid-gray, got %d flagged", mask.Count())
	}
}
