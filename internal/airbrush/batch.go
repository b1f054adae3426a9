package airbrush

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"satbrush/pkg/raster"
)

// outputSuffixes marks files produced by earlier runs. They are skipped so a
// partially processed directory can be resumed by simply re-running the batch.
var outputSuffixes = []string{SuffixBrushed, SuffixMask, SuffixInpainted}

func isPipelineOutput(name string) bool {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if strings.HasPrefix(base, "_") {
		return true // stitched composites sort first by convention
	}
	for _, s := range outputSuffixes {
		if strings.HasSuffix(base, s) {
			return true
		}
	}
	return false
}

// ListTiles returns the input tiles of dir in lexicographic order, excluding
// outputs of previous runs.
func ListTiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !raster.IsImageFile(e.Name()) || isPipelineOutput(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// ProcessDir airbrushes every tile in dir, writing results next to the
// originals. Tiles are independent, so they are distributed over the
// configured number of workers. A tile that cannot be decoded is skipped with
// a warning; the batch continues. Returns the number of tiles processed.
func (a *Airbrusher) ProcessDir(dir string) (int, error) {
	files, err := ListTiles(dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no image files found in %s", dir)
	}

	a.logger.Info("airbrushing tiles", "count", len(files), "dir", dir, "workers", a.cfg.Workers)
	start := time.Now()

	jobs := make(chan string)
	var done, skipped atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < a.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := a.ProcessFile(path, dir); err != nil {
					skipped.Add(1)
					a.logger.Warn("skipping tile", "tile", filepath.Base(path), "err", err)
					continue
				}
				done.Add(1)
			}
		}()
	}
	for _, f := range files {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	a.logger.Info("airbrush complete",
		"processed", done.Load(), "skipped", skipped.Load(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return int(done.Load()), nil
}
