package cmd

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "satbrush",
	Version: "1.0.0",
	Short:   "Slice, airbrush and restitch oversized satellite maps",
	Long: `satbrush is a batch pipeline for retouching large satellite maps.

It slices an oversized source image into fixed-size tiles, detects man-made
gray/white regions per tile (roads, roofs, parking lots), replaces them with
natural texture via content-aware fill and green blending, and stitches the
brushed tiles back into one composite.

Examples:
  # Slice a large map into 1024x1024 tiles
  satbrush slice --input source/images/satmap.bmp --output output

  # Airbrush every tile with 8 workers
  satbrush airbrush --input output --workers 8

  # Airbrush a single tile, keeping debug artifacts
  satbrush airbrush --input output --single 7_7.png --debug

  # Stitch the brushed tiles back together
  satbrush stitch --input-dir output --output-name _stitched_brushed.bmp

  # Start the HTTP service
  satbrush serve --port 8080`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.satbrush.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".satbrush" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".satbrush")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// newLogger builds the command logger, honoring the --verbose flag.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
