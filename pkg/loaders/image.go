// Package loaders reads raster images from disk into image maps
package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"os"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/material"
)

// LoadImageMap loads a PNG or JPEG image. Alpha becomes transmit, so fully
// transparent pixels let everything through.
func LoadImageMap(filename string) (*material.ImageMap, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", filename, err)
	}
	return FromImage(img), nil
}

// FromImage converts a decoded image into a repeating image map
func FromImage(img image.Image) *material.ImageMap {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.TransColour, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns alpha-premultiplied values in [0, 65535]
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			if a == 0 {
				pixels[y*width+x] = core.NewTransColour(0, 0, 0, 0, 1)
				continue
			}
			alpha := float64(a)
			pixels[y*width+x] = core.NewTransColour(
				float64(r)/alpha,
				float64(g)/alpha,
				float64(b)/alpha,
				0,
				1.0-alpha/65535.0,
			)
		}
	}
	return material.NewImageMap(width, height, pixels)
}
