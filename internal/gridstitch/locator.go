// Package gridstitch reassembles processed tiles into one composite image,
// recovering each tile's grid position from its filename where possible and
// falling back to an inferred rectangular arrangement otherwise.
package gridstitch

import (
	"fmt"
	"image"
	"math"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Strategy identifies how a layout's positions were determined.
type Strategy int

const (
	// Located means every position was parsed from filename coordinates.
	Located Strategy = iota
	// Inferred means positions were assigned row-major from file order into
	// a best-effort rectangular grid.
	Inferred
)

func (s Strategy) String() string {
	if s == Located {
		return "located"
	}
	return "inferred"
}

// Layout maps grid positions to tile paths. Point.X is the column, Point.Y
// the row. It is computed once per stitch and immutable thereafter.
type Layout struct {
	Strategy               Strategy
	Tiles                  map[image.Point]string
	MinX, MinY, MaxX, MaxY int
}

// Cols and Rows are the extents of the layout's bounding box.
func (l *Layout) Cols() int { return l.MaxX - l.MinX + 1 }
func (l *Layout) Rows() int { return l.MaxY - l.MinY + 1 }

var digitRun = regexp.MustCompile(`-?\d+`)

// ParseCoords extracts the tile coordinate from a filename. It collects every
// run of digits in the base name and takes the last two as (row, col), the
// rightmost being the column: "tile_3_5_brushed.png" is row 3, col 5.
//
// Filenames embedding unrelated trailing numbers (version suffixes and the
// like) will satisfy this rule with the wrong coordinate; that fragility is a
// known property of the naming convention, not something the parser corrects.
func ParseCoords(name string) (row, col int, ok bool) {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	nums := digitRun.FindAllString(base, -1)
	if len(nums) < 2 {
		return 0, 0, false
	}
	row, err := strconv.Atoi(nums[len(nums)-2])
	if err != nil {
		return 0, 0, false
	}
	col, err = strconv.Atoi(nums[len(nums)-1])
	if err != nil {
		return 0, 0, false
	}
	return row, col, true
}

// Locate determines a grid position for every file. The filename strategy is
// all-or-nothing: a single file without two digit runs switches the whole set
// to grid-order inference, so every file is still assigned a unique position.
func Locate(files []string) (*Layout, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("no tiles to locate")
	}
	if l, ok := locateByName(files); ok {
		return l, nil
	}
	return inferGrid(files), nil
}

func locateByName(files []string) (*Layout, bool) {
	tiles := make(map[image.Point]string, len(files))
	l := &Layout{Strategy: Located, Tiles: tiles}
	first := true
	for _, f := range files {
		row, col, ok := ParseCoords(f)
		if !ok {
			return nil, false
		}
		tiles[image.Point{X: col, Y: row}] = f
		if first {
			l.MinX, l.MaxX = col, col
			l.MinY, l.MaxY = row, row
			first = false
			continue
		}
		l.MinX = min(l.MinX, col)
		l.MaxX = max(l.MaxX, col)
		l.MinY = min(l.MinY, row)
		l.MaxY = max(l.MaxY, row)
	}
	return l, true
}

// gridShape picks the rectangular arrangement for n tiles: rows is the
// largest divisor of n not exceeding int(√n)+1 and cols is n/rows, so the
// grid is as square as an exact factorization allows. Primes degrade to a
// single row of n columns.
func gridShape(n int) (rows, cols int) {
	for r := 1; r <= int(math.Sqrt(float64(n)))+1; r++ {
		if n%r == 0 {
			rows, cols = r, n/r
		}
	}
	if rows == 0 {
		cols = int(math.Ceil(math.Sqrt(float64(n))))
		rows = (n + cols - 1) / cols
	}
	return rows, cols
}

func inferGrid(files []string) *Layout {
	ordered := append([]string(nil), files...)
	sort.Strings(ordered)

	rows, cols := gridShape(len(ordered))
	tiles := make(map[image.Point]string, len(ordered))
	for i, f := range ordered {
		tiles[image.Point{X: i % cols, Y: i / cols}] = f
	}
	return &Layout{
		Strategy: Inferred,
		Tiles:    tiles,
		MaxX:     cols - 1,
		MaxY:     rows - 1,
	}
}
