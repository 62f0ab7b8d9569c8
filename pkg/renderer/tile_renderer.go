package renderer

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/trace"
)

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
	Random          *rand.Rand      // Tile-specific jitter for deterministic results
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
		Random: rand.New(rand.NewSource(int64(id + 42))), // +42 to avoid seed 0
	}
}

// NewTileGrid creates a grid of tiles covering the entire image
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)
			tiles = append(tiles, NewTile(len(tiles), image.Rect(x0, y0, x1, y1)))
		}
	}
	return tiles
}

// TileRenderer traces the camera rays of tiles with one trace engine
type TileRenderer struct {
	engine *trace.Engine
	camera *Camera
}

// NewTileRenderer creates a tile renderer. The engine must not be used by
// any other renderer.
func NewTileRenderer(engine *trace.Engine, camera *Camera) *TileRenderer {
	return &TileRenderer{engine: engine, camera: camera}
}

// RenderTileBounds samples every pixel within bounds until it holds
// targetSamples samples. The first sample of a pixel goes through its
// centre; later ones are jittered.
func (tr *TileRenderer) RenderTileBounds(bounds image.Rectangle, pixelStats [][]PixelStats, random *rand.Rand, targetSamples int) (RenderStats, error) {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy()}
	origin := tr.camera.Origin()

	for j := bounds.Min.Y; j < bounds.Max.Y; j++ {
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			ps := &pixelStats[j][i]
			for ps.SampleCount < targetSamples {
				var du, dv float64
				if ps.SampleCount > 0 {
					du, dv = random.Float64()-0.5, random.Float64()-0.5
				}
				ray := tr.engine.NewPrimaryRay(origin, tr.camera.Direction(i, j, du, dv))
				c, _, _, err := tr.engine.TraceRay(&ray, 1, false, 0)
				if err != nil {
					return stats, err
				}
				ps.AddSample(c)
				stats.TotalSamples++
			}
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats, nil
}

// colourToRGBA converts a linear colour to RGBA with gamma 2 correction
// and clamping
func colourToRGBA(c core.Colour) color.RGBA {
	channel := func(v float64) uint8 {
		v = math.Sqrt(math.Max(0, v))
		return uint8(255 * math.Min(1, v))
	}
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}
