package cmd

import (
	"fmt"
	"image/color"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"satbrush/internal/gridstitch"
	"satbrush/pkg/raster"
)

var stitchCmd = &cobra.Command{
	Use:   "stitch",
	Short: "Reassemble brushed tiles into one composite image",
	Long: `Stitch tiles from the input directory back into a single image.

Tile positions come from the filename convention {row}_{col}: the last two
runs of digits in each base name are taken as (row, col). When any filename
lacks coordinates, the whole set falls back to a rectangular grid inferred
from filename order.

The output is saved inside the input directory. The default name starts with
an underscore so it sorts to the top, and the .bmp extension forces an opaque
composite.

Examples:
  satbrush stitch --input-dir output
  satbrush stitch --input-dir output --output-name mosaic.png --background black
  satbrush stitch --input-dir output --suffix "" --tile-size 0 --recursive`,
	RunE: runStitch,
}

func init() {
	rootCmd.AddCommand(stitchCmd)

	stitchCmd.Flags().StringP("input-dir", "i", "output", "directory with the tiles")
	stitchCmd.Flags().StringP("output-name", "o", "_stitched_brushed.bmp", "output filename, created inside the input directory")
	stitchCmd.Flags().BoolP("recursive", "r", false, "search for tiles recursively")
	stitchCmd.Flags().IntP("tile-size", "t", 1024, "tile edge length in pixels (0 = infer from first tile)")
	stitchCmd.Flags().StringP("background", "b", "", `background color: name, "#rrggbb[aa]" or "r,g,b[,a]" (default transparent)`)
	stitchCmd.Flags().String("suffix", "_brushed", "only stitch filenames ending in this suffix")

	viper.BindPFlag("stitch.input-dir", stitchCmd.Flags().Lookup("input-dir"))
	viper.BindPFlag("stitch.output-name", stitchCmd.Flags().Lookup("output-name"))
	viper.BindPFlag("stitch.recursive", stitchCmd.Flags().Lookup("recursive"))
	viper.BindPFlag("stitch.tile-size", stitchCmd.Flags().Lookup("tile-size"))
	viper.BindPFlag("stitch.background", stitchCmd.Flags().Lookup("background"))
	viper.BindPFlag("stitch.suffix", stitchCmd.Flags().Lookup("suffix"))
}

func runStitch(cmd *cobra.Command, args []string) error {
	background := color.NRGBA{}
	if bg := viper.GetString("stitch.background"); bg != "" {
		parsed, err := raster.ParseColor(bg)
		if err != nil {
			return err
		}
		background = parsed
	}

	tileSize := viper.GetInt("stitch.tile-size")
	if tileSize < 0 {
		return fmt.Errorf("tile size must not be negative, got %d", tileSize)
	}

	s := gridstitch.NewStitcher(gridstitch.Options{
		TileSize:   tileSize,
		Background: background,
		Suffix:     viper.GetString("stitch.suffix"),
		Recursive:  viper.GetBool("stitch.recursive"),
	}, newLogger())

	if _, err := s.StitchDir(viper.GetString("stitch.input-dir"), viper.GetString("stitch.output-name")); err != nil {
		return fmt.Errorf("stitch: %w", err)
	}
	return nil
}
