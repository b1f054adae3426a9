// Package config holds the tunable parameters of the airbrush pipeline.
//
// Every stage takes its thresholds from a Config value instead of package-level
// constants so that several pipeline runs with different tuning can coexist in
// one process.
package config

import "fmt"

// Config contains all pipeline tuning parameters.
type Config struct {
	// ChunkSize is the tile edge length in pixels used by the slicer.
	ChunkSize int

	// SatThreshold is the HSV saturation (0-255) at or below which a pixel
	// counts as desaturated.
	SatThreshold uint8
	// ValThreshold is the HSV value (0-255) at or above which a pixel counts
	// as bright.
	ValThreshold uint8
	// ChannelDelta is the maximum pairwise difference between the R, G and B
	// channels (0-255) for a pixel to count as neutral gray.
	ChannelDelta uint8

	// MorphKernel is the edge length of the elliptical structuring element
	// used for mask refinement.
	MorphKernel int
	// DilateIterations expands the refined mask past object edges.
	DilateIterations int

	// FillRadius bounds how far each inpainting step samples, in pixels.
	FillRadius int

	// BlendAlpha pulls inpainted pixels toward the tile's natural green tone.
	// 0 keeps the raw fill, 1 replaces it with the green tone entirely.
	BlendAlpha float64

	// GreenHueMin and GreenHueMax bound the hue band (degrees) sampled for
	// the natural green tone.
	GreenHueMin float64
	GreenHueMax float64
	// GreenSatMin and GreenValMin (0-255) exclude washed-out pixels from the
	// green sample.
	GreenSatMin uint8
	GreenValMin uint8

	// Workers is the number of tiles airbrushed concurrently.
	Workers int

	// Debug additionally writes the refined mask and the raw inpainted image
	// next to each brushed tile.
	Debug bool
}

// Default returns the configuration the thresholds were tuned with.
func Default() Config {
	return Config{
		ChunkSize:        1024,
		SatThreshold:     40,
		ValThreshold:     120,
		ChannelDelta:     20,
		MorphKernel:      3,
		DilateIterations: 2,
		FillRadius:       3,
		BlendAlpha:       0.55,
		GreenHueMin:      35,
		GreenHueMax:      85,
		GreenSatMin:      80,
		GreenValMin:      60,
		Workers:          1,
	}
}

// Validate reports the first invalid parameter. It is called before any I/O
// so bad tuning fails fast instead of producing partial output.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.ChunkSize)
	}
	if c.MorphKernel <= 0 {
		return fmt.Errorf("morphological kernel size must be positive, got %d", c.MorphKernel)
	}
	if c.DilateIterations < 0 {
		return fmt.Errorf("dilate iterations must not be negative, got %d", c.DilateIterations)
	}
	if c.FillRadius <= 0 {
		return fmt.Errorf("fill radius must be positive, got %d", c.FillRadius)
	}
	if c.BlendAlpha < 0 || c.BlendAlpha > 1 {
		return fmt.Errorf("blend alpha must be in [0,1], got %g", c.BlendAlpha)
	}
	if c.GreenHueMin < 0 || c.GreenHueMax > 360 || c.GreenHueMin >= c.GreenHueMax {
		return fmt.Errorf("green hue band [%g,%g] is inverted or out of range", c.GreenHueMin, c.GreenHueMax)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("worker count must be positive, got %d", c.Workers)
	}
	return nil
}
