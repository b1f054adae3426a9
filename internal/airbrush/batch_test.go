package airbrush

import (
	"os"
	"path/filepath"
	"testing"

	"satbrush/internal/config"
	"satbrush/pkg/raster"
)

func writeTile(t *testing.T, dir, name string) {
	t.Helper()
	if err := raster.Save(uniformTile(8, 8, grass), filepath.Join(dir, name)); err != nil {
		t.Fatal(err)
	}
}

func TestListTilesSkipsPipelineOutputs(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "0_0.png")
	writeTile(t, dir, "0_1.png")
	writeTile(t, dir, "0_0_brushed.png")
	writeTile(t, dir, "0_0_mask.png")
	writeTile(t, dir, "0_0_inpainted.png")
	writeTile(t, dir, "_stitched_brushed.png")
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := ListTiles(dir)
	if err != nil {
		t.Fatalf("ListTiles() failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("ListTiles() = %v, want the two input tiles", files)
	}
	if filepath.Base(files[0]) != "0_0.png" || filepath.Base(files[1]) != "0_1.png" {
		t.Errorf("unexpected tiles %v", files)
	}
}

func TestProcessDirSkipsCorruptTiles(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "0_0.png")
	writeTile(t, dir, "0_1.png")
	if err := os.WriteFile(filepath.Join(dir, "0_2.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Workers = 2
	a := newTestAirbrusher(t, cfg)

	n, err := a.ProcessDir(dir)
	if err != nil {
		t.Fatalf("ProcessDir() failed: %v", err)
	}
	if n != 2 {
		t.Fatalf("ProcessDir() processed %d tiles, want 2 (corrupt tile skipped)", n)
	}
	for _, name := range []string{"0_0_brushed.png", "0_1_brushed.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
}

func TestProcessDirMissingDirectoryIsFatal(t *testing.T) {
	a := newTestAirbrusher(t, config.Default())
	if _, err := a.ProcessDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("ProcessDir() should fail for a missing input directory")
	}
}

func TestProcessDirRejectsFilePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.png")
	writeTile(t, dir, "file.png")

	a := newTestAirbrusher(t, config.Default())
	if _, err := a.ProcessDir(path); err == nil {
		t.Fatal("ProcessDir() should fail when the input path is not a directory")
	}
}

func TestProcessDirIsResumable(t *testing.T) {
	dir := t.TempDir()
	writeTile(t, dir, "0_0.png")

	a := newTestAirbrusher(t, config.Default())
	if _, err := a.ProcessDir(dir); err != nil {
		t.Fatal(err)
	}
	// Re-running must process the same single input tile, not its output.
	n, err := a.ProcessDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("re-run processed %d tiles, want 1", n)
	}
}
