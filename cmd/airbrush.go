package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"satbrush/internal/airbrush"
	"satbrush/internal/config"
)

var airbrushCmd = &cobra.Command{
	Use:   "airbrush",
	Short: "Replace man-made gray/white areas in tiles with natural texture",
	Long: `Detect likely man-made light/gray regions in each tile (houses, roads,
parking lots) and replace them so the tiles look more natural.

Per tile: build a mask of gray/white pixels from HSV and channel-delta
heuristics, smooth it with morphological operations, fill the masked regions
from nearby texture, then blend the filled area toward the tile's own green
tone. Results are written next to the originals with a "_brushed" suffix.

This is a heuristic touch-up; results depend on how much natural texture
surrounds the detected regions.

Examples:
  satbrush airbrush --input output
  satbrush airbrush --input output --single 7_7.png --debug
  satbrush airbrush --input output --workers 8 --blend-alpha 0.4`,
	RunE: runAirbrush,
}

func init() {
	rootCmd.AddCommand(airbrushCmd)

	airbrushCmd.Flags().StringP("input", "i", "output", "directory holding the tiles")
	airbrushCmd.Flags().StringP("single", "s", "", "process a single tile filename instead of the whole directory")
	airbrushCmd.Flags().BoolP("debug", "d", false, "also write mask and raw inpainted images")
	airbrushCmd.Flags().IntP("workers", "w", runtime.NumCPU(), "number of tiles processed concurrently")

	airbrushCmd.Flags().Int("sat-threshold", 40, "HSV saturation at or below which a pixel is desaturated (0-255)")
	airbrushCmd.Flags().Int("val-threshold", 120, "HSV value at or above which a pixel is bright (0-255)")
	airbrushCmd.Flags().Int("channel-delta", 20, "max pairwise RGB difference for a neutral gray pixel (0-255)")
	airbrushCmd.Flags().Int("kernel", 3, "morphological kernel edge length")
	airbrushCmd.Flags().Int("dilate-iterations", 2, "mask dilation iterations after open/close")
	airbrushCmd.Flags().Int("fill-radius", 3, "content-aware fill sampling radius in pixels")
	airbrushCmd.Flags().Float64("blend-alpha", 0.55, "strength of the green blend over filled areas (0-1)")

	viper.BindPFlag("airbrush.input", airbrushCmd.Flags().Lookup("input"))
	viper.BindPFlag("airbrush.single", airbrushCmd.Flags().Lookup("single"))
	viper.BindPFlag("airbrush.debug", airbrushCmd.Flags().Lookup("debug"))
	viper.BindPFlag("airbrush.workers", airbrushCmd.Flags().Lookup("workers"))
	viper.BindPFlag("airbrush.sat-threshold", airbrushCmd.Flags().Lookup("sat-threshold"))
	viper.BindPFlag("airbrush.val-threshold", airbrushCmd.Flags().Lookup("val-threshold"))
	viper.BindPFlag("airbrush.channel-delta", airbrushCmd.Flags().Lookup("channel-delta"))
	viper.BindPFlag("airbrush.kernel", airbrushCmd.Flags().Lookup("kernel"))
	viper.BindPFlag("airbrush.dilate-iterations", airbrushCmd.Flags().Lookup("dilate-iterations"))
	viper.BindPFlag("airbrush.fill-radius", airbrushCmd.Flags().Lookup("fill-radius"))
	viper.BindPFlag("airbrush.blend-alpha", airbrushCmd.Flags().Lookup("blend-alpha"))
}

func airbrushConfig() config.Config {
	cfg := config.Default()
	cfg.SatThreshold = uint8(viper.GetInt("airbrush.sat-threshold"))
	cfg.ValThreshold = uint8(viper.GetInt("airbrush.val-threshold"))
	cfg.ChannelDelta = uint8(viper.GetInt("airbrush.channel-delta"))
	cfg.MorphKernel = viper.GetInt("airbrush.kernel")
	cfg.DilateIterations = viper.GetInt("airbrush.dilate-iterations")
	cfg.FillRadius = viper.GetInt("airbrush.fill-radius")
	cfg.BlendAlpha = viper.GetFloat64("airbrush.blend-alpha")
	cfg.Workers = viper.GetInt("airbrush.workers")
	cfg.Debug = viper.GetBool("airbrush.debug")
	return cfg
}

func runAirbrush(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	a, err := airbrush.New(airbrushConfig(), logger)
	if err != nil {
		return err
	}

	dir := viper.GetString("airbrush.input")
	if single := viper.GetString("airbrush.single"); single != "" {
		path := filepath.Join(dir, single)
		logger.Info("processing single tile", "tile", path)
		if err := a.ProcessFile(path, dir); err != nil {
			return fmt.Errorf("airbrush: %w", err)
		}
		return nil
	}

	if _, err := a.ProcessDir(dir); err != nil {
		return fmt.Errorf("airbrush: %w", err)
	}
	return nil
}
