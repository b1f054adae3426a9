// Package airbrush detects man-made gray/white regions in satellite tiles and
// replaces them with plausible natural texture: classify, refine, inpaint,
// pull toward the tile's green tone, smooth.
package airbrush

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"satbrush/internal/config"
	"satbrush/pkg/raster"
)

// smoothSigma approximates a 3×3 Gaussian pass over the finished tile to
// soften the seam along the mask boundary.
const smoothSigma = 0.8

// Output filename suffixes appended before the extension.
const (
	SuffixBrushed   = "_brushed"
	SuffixMask      = "_mask"
	SuffixInpainted = "_inpainted"
)

// Airbrusher runs the per-tile replacement pipeline.
type Airbrusher struct {
	cfg        config.Config
	classifier *Classifier
	refiner    *Refiner
	logger     *log.Logger
}

// New validates cfg and builds an Airbrusher.
func New(cfg config.Config, logger *log.Logger) (*Airbrusher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("airbrush config: %w", err)
	}
	return &Airbrusher{
		cfg:        cfg,
		classifier: NewClassifier(cfg),
		refiner:    NewRefiner(cfg),
		logger:     logger,
	}, nil
}

// Result holds the outputs of processing a single tile.
type Result struct {
	// Brushed is the final tile, always present.
	Brushed *image.NRGBA
	// Mask is the refined classification mask.
	Mask *Mask
	// Inpainted is the raw fill before green tinting, nil when Changed is false.
	Inpainted *image.NRGBA
	// Changed reports whether any pixel was replaced.
	Changed bool
}

// Process runs the full pipeline on one tile. The input image is never
// modified; every stage works on its own copy.
func (a *Airbrusher) Process(img image.Image) *Result {
	src := raster.ToNRGBA(img)

	mask := a.classifier.Mask(src)
	mask = a.refiner.Refine(mask)

	// Identity fast path: nothing detected, output equals input.
	if mask.Count() == 0 {
		return &Result{Brushed: src, Mask: mask}
	}

	inpainted := Inpaint(src, mask, a.cfg.FillRadius)
	green := MeanGreen(src, a.cfg)

	blended := imaging.Clone(inpainted)
	alpha := a.cfg.BlendAlpha
	for y := 0; y < mask.H; y++ {
		for x := 0; x < mask.W; x++ {
			if !mask.At(x, y) {
				continue
			}
			o := blended.PixOffset(x, y)
			blended.Pix[o] = blend(green.R, blended.Pix[o], alpha)
			blended.Pix[o+1] = blend(green.G, blended.Pix[o+1], alpha)
			blended.Pix[o+2] = blend(green.B, blended.Pix[o+2], alpha)
		}
	}
	blended = imaging.Blur(blended, smoothSigma)

	return &Result{Brushed: blended, Mask: mask, Inpainted: inpainted, Changed: true}
}

func blend(tint, filled uint8, alpha float64) uint8 {
	return uint8(alpha*float64(tint) + (1-alpha)*float64(filled) + 0.5)
}

// ProcessFile airbrushes the tile at inPath and writes the result into outDir
// as {base}_brushed.png. With the debug flag set, the refined mask and the
// raw inpainted image are written alongside it.
func (a *Airbrusher) ProcessFile(inPath, outDir string) error {
	img, err := raster.Open(inPath)
	if err != nil {
		return err
	}

	res := a.Process(img)

	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath))
	brushedPath := filepath.Join(outDir, base+SuffixBrushed+".png")
	if err := raster.Save(res.Brushed, brushedPath); err != nil {
		return err
	}

	if !res.Changed {
		a.logger.Debug("no gray/white areas detected", "tile", filepath.Base(inPath))
	}
	if a.cfg.Debug {
		if err := raster.Save(res.Mask.ToGray(), filepath.Join(outDir, base+SuffixMask+".png")); err != nil {
			return err
		}
		if res.Inpainted != nil {
			if err := raster.Save(res.Inpainted, filepath.Join(outDir, base+SuffixInpainted+".png")); err != nil {
				return err
			}
		}
	}
	return nil
}
