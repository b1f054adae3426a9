package gridstitch

import (
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"satbrush/pkg/raster"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeUniformTile(t *testing.T, path string, size int, c color.NRGBA) {
	t.Helper()
	if err := raster.Save(imaging.New(size, size, c), path); err != nil {
		t.Fatal(err)
	}
}

var (
	red   = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

func TestStitchBackgroundNeverShowsUnderTiles(t *testing.T) {
	dir := t.TempDir()
	writeUniformTile(t, filepath.Join(dir, "0_0.png"), 4, red)
	writeUniformTile(t, filepath.Join(dir, "0_1.png"), 4, red)

	s := NewStitcher(Options{TileSize: 4, Background: black}, testLogger())
	files, err := s.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := Locate(files)
	if err != nil {
		t.Fatal(err)
	}

	canvas, err := s.Stitch(layout)
	if err != nil {
		t.Fatalf("Stitch() failed: %v", err)
	}
	if canvas.Bounds().Dx() != 8 || canvas.Bounds().Dy() != 4 {
		t.Fatalf("canvas is %v, want 8x4", canvas.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 8; x++ {
			if got := canvas.NRGBAAt(x, y); got != red {
				t.Fatalf("pixel (%d,%d) = %v, want solid red", x, y, got)
			}
		}
	}
}

func TestStitchLeavesMissingPositionsAsBackground(t *testing.T) {
	dir := t.TempDir()
	writeUniformTile(t, filepath.Join(dir, "0_0.png"), 4, red)
	writeUniformTile(t, filepath.Join(dir, "1_1.png"), 4, red)

	s := NewStitcher(Options{TileSize: 4, Background: black}, testLogger())
	files, err := s.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := Locate(files)
	if err != nil {
		t.Fatal(err)
	}

	canvas, err := s.Stitch(layout)
	if err != nil {
		t.Fatal(err)
	}
	if got := canvas.NRGBAAt(1, 1); got != red {
		t.Errorf("tile (0,0) pixel = %v, want red", got)
	}
	if got := canvas.NRGBAAt(6, 1); got != black {
		t.Errorf("missing position should show background, got %v", got)
	}
}

func TestStitchToleratesCorruptTile(t *testing.T) {
	dir := t.TempDir()
	writeUniformTile(t, filepath.Join(dir, "0_0.png"), 4, red)
	if err := os.WriteFile(filepath.Join(dir, "0_1.png"), []byte("corrupt"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStitcher(Options{TileSize: 4, Background: black}, testLogger())
	files, err := s.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := Locate(files)
	if err != nil {
		t.Fatal(err)
	}

	canvas, err := s.Stitch(layout)
	if err != nil {
		t.Fatalf("a single corrupt tile must not abort the composite: %v", err)
	}
	if got := canvas.NRGBAAt(1, 1); got != red {
		t.Errorf("good tile pixel = %v, want red", got)
	}
	if got := canvas.NRGBAAt(6, 1); got != black {
		t.Errorf("corrupt tile position should show background, got %v", got)
	}
}

func TestStitchInfersTileSizeFromFirstTile(t *testing.T) {
	dir := t.TempDir()
	writeUniformTile(t, filepath.Join(dir, "0_0.png"), 6, red)
	writeUniformTile(t, filepath.Join(dir, "0_1.png"), 6, red)

	s := NewStitcher(Options{TileSize: 0}, testLogger())
	files, err := s.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := Locate(files)
	if err != nil {
		t.Fatal(err)
	}

	canvas, err := s.Stitch(layout)
	if err != nil {
		t.Fatal(err)
	}
	if canvas.Bounds().Dx() != 12 || canvas.Bounds().Dy() != 6 {
		t.Errorf("canvas is %v, want 12x6", canvas.Bounds())
	}
}

func TestFindTilesHonorsSuffixFilter(t *testing.T) {
	dir := t.TempDir()
	writeUniformTile(t, filepath.Join(dir, "0_0_brushed.png"), 4, red)
	writeUniformTile(t, filepath.Join(dir, "0_0_mask.png"), 4, red)
	writeUniformTile(t, filepath.Join(dir, "0_0.png"), 4, red)

	s := NewStitcher(Options{TileSize: 4, Suffix: "_brushed"}, testLogger())
	files, err := s.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "0_0_brushed.png" {
		t.Errorf("FindTiles() = %v, want only the _brushed tile", files)
	}
}

func TestFindTilesRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeUniformTile(t, filepath.Join(dir, "0_0_brushed.png"), 4, red)
	writeUniformTile(t, filepath.Join(sub, "0_1_brushed.png"), 4, red)

	flat := NewStitcher(Options{Suffix: "_brushed"}, testLogger())
	files, err := flat.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Errorf("flat search found %d tiles, want 1", len(files))
	}

	recursive := NewStitcher(Options{Suffix: "_brushed", Recursive: true}, testLogger())
	files, err = recursive.FindTiles(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Errorf("recursive search found %d tiles, want 2", len(files))
	}
}

func TestStitchDirBMPIsOpaque(t *testing.T) {
	dir := t.TempDir()
	// Tiles carry transparency that must survive compositing but not the
	// final BMP save.
	translucent := color.NRGBA{R: 255, G: 0, B: 0, A: 128}
	writeUniformTile(t, filepath.Join(dir, "0_0_brushed.png"), 4, translucent)

	s := NewStitcher(Options{TileSize: 4, Suffix: "_brushed"}, testLogger())
	out, err := s.StitchDir(dir, "_stitched_brushed.bmp")
	if err != nil {
		t.Fatalf("StitchDir() failed: %v", err)
	}

	img, err := raster.Open(out)
	if err != nil {
		t.Fatalf("reopening composite failed: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 4, 4) {
		t.Fatalf("composite is %v, want 4x4", img.Bounds())
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				t.Fatalf("BMP composite pixel (%d,%d) is not opaque", x, y)
			}
		}
	}
}

func TestStitchDirFailsWithoutTiles(t *testing.T) {
	s := NewStitcher(Options{}, testLogger())
	if _, err := s.StitchDir(t.TempDir(), "out.png"); err == nil {
		t.Fatal("StitchDir() should fail when no tiles are found")
	}
	if _, err := s.StitchDir(filepath.Join(t.TempDir(), "missing"), "out.png"); err == nil {
		t.Fatal("StitchDir() should fail for a missing directory")
	}
}
