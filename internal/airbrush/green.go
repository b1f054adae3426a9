package airbrush

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"satbrush/internal/config"
)

// MeanGreen computes the representative natural green tone of a tile: the
// mean color of all pixels whose hue falls in the configured green band with
// saturation and value above the configured minimums. When no pixel
// qualifies, it falls back to the mean color of the whole tile.
func MeanGreen(img *image.NRGBA, cfg config.Config) color.NRGBA {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	satMin := float64(cfg.GreenSatMin) / 255
	valMin := float64(cfg.GreenValMin) / 255

	greens := make([][]float64, 3)
	all := make([][]float64, 3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			r := float64(row[x*4])
			g := float64(row[x*4+1])
			b := float64(row[x*4+2])
			all[0] = append(all[0], r)
			all[1] = append(all[1], g)
			all[2] = append(all[2], b)

			hue, s, v := colorful.Color{R: r / 255, G: g / 255, B: b / 255}.Hsv()
			if hue >= cfg.GreenHueMin && hue <= cfg.GreenHueMax && s >= satMin && v >= valMin {
				greens[0] = append(greens[0], r)
				greens[1] = append(greens[1], g)
				greens[2] = append(greens[2], b)
			}
		}
	}

	sample := greens
	if len(sample[0]) == 0 {
		sample = all
	}
	if len(sample[0]) == 0 {
		return color.NRGBA{A: 255}
	}
	return color.NRGBA{
		R: uint8(stat.Mean(sample[0], nil)),
		G: uint8(stat.Mean(sample[1], nil)),
		B: uint8(stat.Mean(sample[2], nil)),
		A: 255,
	}
}
