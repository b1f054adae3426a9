package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"satbrush/internal/config"
	"satbrush/internal/slicer"
)

var sliceCmd = &cobra.Command{
	Use:   "slice",
	Short: "Split a large image into fixed-size tiles",
	Long: `Slice a large bitmap into square chunks named {row}_{col}.png.

Edge tiles smaller than the chunk size are padded with fully transparent
pixels instead of being stretched. Any previous contents of the output
directory are removed first.

Examples:
  satbrush slice --input source/images/satmap.bmp --output output
  satbrush slice --input map.png --output tiles --chunk 512`,
	RunE: runSlice,
}

func init() {
	rootCmd.AddCommand(sliceCmd)

	sliceCmd.Flags().StringP("input", "i", "", "source image to slice (required)")
	sliceCmd.Flags().StringP("output", "o", "output", "directory for the tiles")
	sliceCmd.Flags().IntP("chunk", "c", 1024, "tile edge length in pixels")
	sliceCmd.MarkFlagRequired("input")

	viper.BindPFlag("slice.input", sliceCmd.Flags().Lookup("input"))
	viper.BindPFlag("slice.output", sliceCmd.Flags().Lookup("output"))
	viper.BindPFlag("slice.chunk", sliceCmd.Flags().Lookup("chunk"))
}

func runSlice(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.ChunkSize = viper.GetInt("slice.chunk")
	if err := cfg.Validate(); err != nil {
		return err
	}

	s := slicer.New(cfg, newLogger())
	if _, err := s.Slice(viper.GetString("slice.input"), viper.GetString("slice.output")); err != nil {
		return fmt.Errorf("slice: %w", err)
	}
	return nil
}
