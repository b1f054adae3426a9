// Package raster provides image decode/encode helpers shared by the slicer,
// airbrush and stitch stages.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	// TGA and WEBP decoders; PNG, JPEG, GIF, BMP and TIFF are registered by
	// the imaging package itself.
	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"
)

// extensions recognized as input tiles or source images.
var extensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
	".tga":  true,
}

// IsImageFile reports whether path has a supported raster extension.
func IsImageFile(path string) bool {
	return extensions[strings.ToLower(filepath.Ext(path))]
}

// Open decodes the image at path into memory. There is no pixel-count safety
// cap: source satellite maps are routinely larger than typical decoder limits.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// Save encodes img to path, choosing the format from the extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// ToNRGBA returns a mutable NRGBA copy of img. The source is never aliased,
// so callers are free to write into the result.
func ToNRGBA(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}

// Flatten returns a copy of img with every pixel fully opaque. The color
// channels are kept as-is, matching a plain RGBA-to-RGB mode drop. Used right
// before saving to formats without alpha support, such as BMP.
func Flatten(img *image.NRGBA) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = 0xff
	}
	return out
}

// namedColors are the color names accepted by ParseColor.
var namedColors = map[string]color.NRGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
}

// ParseColor accepts a color name, "#rrggbb", "#rrggbbaa" or a decimal
// "r,g,b[,a]" tuple. Alpha defaults to opaque unless given explicitly.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 && len(parts) != 4 {
			return color.NRGBA{}, fmt.Errorf("color tuple %q must have 3 or 4 components", s)
		}
		var vals [4]uint8
		vals[3] = 255
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return color.NRGBA{}, fmt.Errorf("color component %q must be 0-255", p)
			}
			vals[i] = uint8(n)
		}
		return color.NRGBA{R: vals[0], G: vals[1], B: vals[2], A: vals[3]}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("unrecognized color %q", s)
	}
	n, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("unrecognized color %q", s)
	}
	if len(hex) == 8 {
		return color.NRGBA{R: uint8(n >> 24), G: uint8(n >> 16), B: uint8(n >> 8), A: uint8(n)}, nil
	}
	return color.NRGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 255}, nil
}
