// Package slicer splits an oversized raster image into a regular grid of
// fixed-size tiles named {row}_{col}.png.
package slicer

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"satbrush/internal/config"
	"satbrush/pkg/raster"
)

// Slicer cuts a source image into chunk-size tiles.
type Slicer struct {
	chunk  int
	logger *log.Logger
}

// New returns a Slicer using cfg.ChunkSize. cfg must already be validated.
func New(cfg config.Config, logger *log.Logger) *Slicer {
	return &Slicer{chunk: cfg.ChunkSize, logger: logger}
}

// Grid returns the number of tile rows and columns needed to cover a
// width×height image with chunk-size tiles.
func Grid(width, height, chunk int) (rows, cols int) {
	rows = (height + chunk - 1) / chunk
	cols = (width + chunk - 1) / chunk
	return rows, cols
}

// Slice decodes srcPath and writes its tiles into outDir, row-major. Any
// previous contents of outDir are removed first. Edge tiles smaller than the
// chunk size are pasted at the origin of a fully transparent chunk-size
// canvas; they are never stretched. Returns the number of tiles written.
func (s *Slicer) Slice(srcPath, outDir string) (int, error) {
	img, err := raster.Open(srcPath)
	if err != nil {
		return 0, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	rows, cols := Grid(width, height, s.chunk)
	s.logger.Info("slicing image",
		"source", srcPath, "size", fmt.Sprintf("%dx%d", width, height),
		"rows", rows, "cols", cols, "tiles", rows*cols)

	if err := os.RemoveAll(outDir); err != nil {
		return 0, fmt.Errorf("clear output dir %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir %s: %w", outDir, err)
	}

	count := 0
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			left := col * s.chunk
			top := row * s.chunk
			right := min(left+s.chunk, width)
			bottom := min(top+s.chunk, height)

			crop := image.Rect(left, top, right, bottom).Add(bounds.Min)
			tile := imaging.Crop(img, crop)

			if tile.Bounds().Dx() != s.chunk || tile.Bounds().Dy() != s.chunk {
				padded := imaging.New(s.chunk, s.chunk, color.NRGBA{})
				tile = imaging.Paste(padded, tile, image.Pt(0, 0))
			}

			name := filepath.Join(outDir, fmt.Sprintf("%d_%d.png", row, col))
			if err := raster.Save(tile, name); err != nil {
				return count, err
			}
			count++
			if count%10 == 0 {
				s.logger.Debug("slicing progress", "done", count, "total", rows*cols)
			}
		}
	}

	s.logger.Info("slicing complete", "tiles", count, "dir", outDir)
	return count, nil
}
