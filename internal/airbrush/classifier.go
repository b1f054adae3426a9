package airbrush

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"satbrush/internal/config"
)

// Classifier flags gray/white man-made pixels: concrete, roofs, roads.
//
// A pixel is flagged only when it is both desaturated-and-bright in HSV and
// channel-neutral in RGB. Saturation/value alone misclassifies bright natural
// textures such as sand or dry grass, so the channel-delta check is required
// to remove colored-but-bright false positives.
type Classifier struct {
	satMax   float64
	valMin   float64
	chanDiff uint8
}

// NewClassifier builds a classifier from the configured thresholds.
func NewClassifier(cfg config.Config) *Classifier {
	return &Classifier{
		satMax:   float64(cfg.SatThreshold) / 255,
		valMin:   float64(cfg.ValThreshold) / 255,
		chanDiff: cfg.ChannelDelta,
	}
}

// Mask classifies every pixel of img. The result has img's dimensions.
func (c *Classifier) Mask(img *image.NRGBA) *Mask {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	mask := NewMask(w, h)

	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r := row[x*4]
			g := row[x*4+1]
			b := row[x*4+2]

			if absDiff(r, g) > c.chanDiff || absDiff(r, b) > c.chanDiff || absDiff(g, b) > c.chanDiff {
				continue
			}

			_, s, v := colorful.Color{
				R: float64(r) / 255,
				G: float64(g) / 255,
				B: float64(b) / 255,
			}.Hsv()
			if s <= c.satMax && v >= c.valMin {
				mask.Set(x, y, true)
			}
		}
	}
	return mask
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
