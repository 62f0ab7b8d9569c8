package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/df07/go-trace-core/pkg/config"
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// Config contains the image and scheduling settings of a render
type Config struct {
	Width, Height int
	TileSize      int
	Samples       int // Total samples per pixel after the last pass
	Passes        int // Progressive passes; each one raises the sample count
	NumWorkers    int // Number of parallel workers (0 = use CPU count)
	Seed          int64
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return ConfigFrom(config.Default())
}

// ConfigFrom takes the render section of loaded settings
func ConfigFrom(cfg *config.Config) Config {
	rs := cfg.Render
	return Config{
		Width:      rs.Width,
		Height:     rs.Height,
		TileSize:   rs.TileSize,
		Samples:    rs.Samples,
		Passes:     rs.Passes,
		NumWorkers: rs.Workers,
	}
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	Image      *image.RGBA
	Stats      RenderStats
	IsLast     bool
}

// Raytracer renders a scene tile by tile over a worker pool, refining the
// image over one or more passes
type Raytracer struct {
	scene      *scene.SceneData
	config     Config
	camera     *Camera
	tiles      []*Tile
	pixelStats [][]PixelStats // Shared pixel statistics array (global image coordinates)
	logger     core.Logger
}

// NewRaytracer creates a raytracer for sd
func NewRaytracer(sd *scene.SceneData, cfg Config, logger core.Logger) *Raytracer {
	if cfg.TileSize <= 0 {
		cfg.TileSize = 32
	}
	if cfg.Samples <= 0 {
		cfg.Samples = 1
	}
	cfg.Passes = max(1, min(cfg.Passes, cfg.Samples))

	pixelStats := make([][]PixelStats, cfg.Height)
	for y := range pixelStats {
		pixelStats[y] = make([]PixelStats, cfg.Width)
	}

	return &Raytracer{
		scene:      sd,
		config:     cfg,
		camera:     NewCamera(sd.Camera, cfg.Width, cfg.Height),
		tiles:      NewTileGrid(cfg.Width, cfg.Height, cfg.TileSize),
		pixelStats: pixelStats,
		logger:     logger,
	}
}

// samplesForPass returns the total samples per pixel after pass, spreading
// the samples evenly and ending exactly on the configured count
func (rt *Raytracer) samplesForPass(pass int) int {
	if pass >= rt.config.Passes {
		return rt.config.Samples
	}
	return max(1, rt.config.Samples*pass/rt.config.Passes)
}

// Render traces every pass and returns the final image with the merged
// statistics. onPass, when not nil, receives each pass as it completes.
// Cancelling ctx stops the workers mid-tile.
func (rt *Raytracer) Render(ctx context.Context, onPass func(PassResult)) (*image.RGBA, RenderStats, error) {
	if err := rt.scene.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid scene: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, RenderStats{}, err
	}

	pool := NewWorkerPool(ctx, rt.scene, rt.camera, rt.config.NumWorkers, len(rt.tiles), rt.config.Seed)
	pool.Start()

	rt.logger.Printf("Rendering %dx%d in %d passes (%d tiles, %d workers)...\n",
		rt.config.Width, rt.config.Height, rt.config.Passes, len(rt.tiles), pool.GetNumWorkers())

	var img *image.RGBA
	var stats RenderStats
	for pass := 1; pass <= rt.config.Passes; pass++ {
		if err := ctx.Err(); err != nil {
			pool.Kill(err)
			pool.Stop()
			rt.logger.Printf("Rendering cancelled before pass %d\n", pass)
			return img, stats, err
		}

		start := time.Now()
		var err error
		img, stats, err = rt.renderPass(pool, pass)
		if err != nil {
			pool.Kill(err)
			if stopErr := pool.Stop(); stopErr != nil && !errors.Is(stopErr, core.ErrCancelled) {
				err = stopErr
			}
			return img, stats, err
		}

		rt.logger.Printf("Pass %d completed in %v (%.1f samples/pixel)\n", pass, time.Since(start), stats.AverageSamples)
		if onPass != nil {
			onPass(PassResult{PassNumber: pass, Image: img, Stats: stats, IsLast: pass == rt.config.Passes})
		}
	}

	if err := pool.Stop(); err != nil {
		return img, stats, err
	}
	traceStats := pool.Stats()
	stats.ObjectTests = traceStats.ObjectTests
	stats.Trace = traceStats.Trace
	return img, stats, nil
}

// renderPass submits every tile and waits for all of them
func (rt *Raytracer) renderPass(pool *WorkerPool, pass int) (*image.RGBA, RenderStats, error) {
	target := rt.samplesForPass(pass)
	for id, tile := range rt.tiles {
		task := TileTask{
			Tile:          tile,
			PassNumber:    pass,
			TargetSamples: target,
			TaskID:        id,
			PixelStats:    rt.pixelStats,
		}
		if !pool.SubmitTask(task) {
			return nil, RenderStats{}, core.ErrCancelled
		}
	}

	for range rt.tiles {
		result, ok := pool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		rt.tiles[result.TaskID].PassesCompleted++
	}

	img, stats := rt.assembleCurrentImage()
	return img, stats, nil
}

// assembleCurrentImage creates an image from the shared pixel stats and
// counts the samples taken so far
func (rt *Raytracer) assembleCurrentImage() (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, rt.config.Width, rt.config.Height))
	stats := RenderStats{TotalPixels: rt.config.Width * rt.config.Height}

	for y := 0; y < rt.config.Height; y++ {
		for x := 0; x < rt.config.Width; x++ {
			pixel := &rt.pixelStats[y][x]
			img.SetRGBA(x, y, colourToRGBA(pixel.Colour()))
			stats.TotalSamples += pixel.SampleCount
		}
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return img, stats
}
