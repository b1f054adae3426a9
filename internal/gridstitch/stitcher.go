package gridstitch

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"satbrush/pkg/raster"
)

// Options configure a stitch operation.
type Options struct {
	// TileSize is the per-tile edge length in pixels. 0 infers the size from
	// the first tile's dimensions.
	TileSize int
	// Background fills canvas positions with no tile. Defaults to fully
	// transparent.
	Background color.NRGBA
	// Suffix filters candidate filenames: only base names ending in it
	// participate. Empty accepts every image file.
	Suffix string
	// Recursive searches the input directory tree instead of one level.
	Recursive bool
}

// Stitcher composites located tiles into one canvas.
type Stitcher struct {
	opts   Options
	logger *log.Logger
}

// NewStitcher returns a Stitcher with the given options.
func NewStitcher(opts Options, logger *log.Logger) *Stitcher {
	return &Stitcher{opts: opts, logger: logger}
}

// FindTiles collects the stitchable images under dir, honoring the suffix
// filter and the recursive flag, sorted lexicographically.
func (s *Stitcher) FindTiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	var files []string
	keep := func(path string) {
		if !raster.IsImageFile(path) {
			return
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if s.opts.Suffix != "" && !strings.HasSuffix(base, s.opts.Suffix) {
			return
		}
		files = append(files, path)
	}

	if s.opts.Recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				keep(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				keep(filepath.Join(dir, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

// Stitch composites every tile of layout onto a canvas of
// Cols()*tileW × Rows()*tileH pixels. A tile that fails to decode leaves its
// position showing the background color; the composite is still produced.
func (s *Stitcher) Stitch(layout *Layout) (*image.NRGBA, error) {
	tileW, tileH := s.opts.TileSize, s.opts.TileSize
	if tileW <= 0 {
		w, h, err := s.probeTileSize(layout)
		if err != nil {
			return nil, err
		}
		tileW, tileH = w, h
	}

	canvas := imaging.New(layout.Cols()*tileW, layout.Rows()*tileH, s.opts.Background)
	s.logger.Info("stitching tiles",
		"tiles", len(layout.Tiles), "strategy", layout.Strategy.String(),
		"grid", fmt.Sprintf("%dx%d", layout.Cols(), layout.Rows()),
		"canvas", fmt.Sprintf("%dx%d", canvas.Bounds().Dx(), canvas.Bounds().Dy()))

	for pos, path := range layout.Tiles {
		tile, err := raster.Open(path)
		if err != nil {
			s.logger.Warn("skipping tile", "tile", filepath.Base(path), "err", err)
			continue
		}
		offset := image.Pt((pos.X-layout.MinX)*tileW, (pos.Y-layout.MinY)*tileH)
		canvas = imaging.Paste(canvas, tile, offset)
	}
	return canvas, nil
}

// StitchDir locates and composites the tiles under dir, then saves the result
// as outName inside dir. BMP output is flattened to opaque immediately before
// saving, never before compositing, so alpha still participates in the paste.
func (s *Stitcher) StitchDir(dir, outName string) (string, error) {
	files, err := s.FindTiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", fmt.Errorf("no image files found in %s", dir)
	}

	layout, err := Locate(files)
	if err != nil {
		return "", err
	}
	if layout.Strategy == Inferred {
		s.logger.Warn("could not parse coordinates from filenames, arranging tiles by filename order")
	}

	canvas, err := s.Stitch(layout)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, outName)
	if strings.EqualFold(filepath.Ext(outPath), ".bmp") {
		canvas = raster.Flatten(canvas)
	}
	if err := raster.Save(canvas, outPath); err != nil {
		return "", err
	}
	s.logger.Info("saved stitched image", "path", outPath)
	return outPath, nil
}

// probeTileSize reads the dimensions of the lexicographically first tile.
func (s *Stitcher) probeTileSize(layout *Layout) (int, int, error) {
	paths := make([]string, 0, len(layout.Tiles))
	for _, p := range layout.Tiles {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		img, err := raster.Open(p)
		if err != nil {
			continue
		}
		return img.Bounds().Dx(), img.Bounds().Dy(), nil
	}
	return 0, 0, fmt.Errorf("could not decode any tile to infer tile size")
}
