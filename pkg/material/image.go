package material

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
)

// ImageMap is a raster mapped onto the unit square of the XY plane
type ImageMap struct {
	Width  int
	Height int
	Pixels []core.TransColour // Row-major: Pixels[y*Width + x]

	// Once leaves points outside the unit square uncoloured instead of
	// repeating the image
	Once bool
}

// NewImageMap creates a repeating image map
func NewImageMap(width, height int, pixels []core.TransColour) *ImageMap {
	return &ImageMap{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Lookup samples the image at a pattern-space point using nearest-neighbor
// filtering. Reports false when a once-only image does not cover the point.
func (m *ImageMap) Lookup(p core.Vec3) (core.TransColour, bool) {
	i, ok := pixelIndex(m.Width, m.Height, m.Once, p)
	if !ok {
		return core.TransColour{}, false
	}
	return m.Pixels[i], true
}

// pixelIndex maps the XY unit square onto a row-major raster
func pixelIndex(width, height int, once bool, p core.Vec3) (int, bool) {
	u, v := p.X, p.Y
	if once && (u < 0 || u >= 1 || v < 0 || v >= 1) {
		return 0, false
	}

	// Wrap to [0, 1)
	u -= math.Floor(u)
	v -= math.Floor(v)

	// V=0 is bottom, V=1 is top (flip V for image rows stored top first)
	x := int(u * float64(width))
	y := int((1.0 - v) * float64(height))

	x = min(max(x, 0), width-1)
	y = min(max(y, 0), height-1)

	return y*width + x, true
}

// MaterialMap is a raster of texture indices mapped like an ImageMap
type MaterialMap struct {
	Width   int
	Height  int
	Indices []int
	Once    bool
}

// Lookup returns the texture index at a pattern-space point. Points a
// once-only map does not cover select index 0.
func (m *MaterialMap) Lookup(p core.Vec3) int {
	i, ok := pixelIndex(m.Width, m.Height, m.Once, p)
	if !ok {
		return 0
	}
	return m.Indices[i]
}

// NewCheckerImage creates a checkerboard image
func NewCheckerImage(width, height, checkSize int, c1, c2 core.TransColour) *ImageMap {
	pixels := make([]core.TransColour, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if (x/checkSize+y/checkSize)%2 == 0 {
				pixels[y*width+x] = c1
			} else {
				pixels[y*width+x] = c2
			}
		}
	}
	return NewImageMap(width, height, pixels)
}
