package renderer

import (
	"context"
	"errors"
	"image"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-trace-core/pkg/config"
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/geometry"
	"github.com/df07/go-trace-core/pkg/lights"
	"github.com/df07/go-trace-core/pkg/material"
	"github.com/df07/go-trace-core/pkg/scene"
	"github.com/df07/go-trace-core/pkg/trace"
)

// bufferLogger collects log output for inspection
type bufferLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *bufferLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, format)
}

func smallConfig(workers int) Config {
	return Config{Width: 24, Height: 18, TileSize: 8, Samples: 1, Passes: 1, NumWorkers: workers, Seed: 1}
}

func TestNewTileGrid(t *testing.T) {
	tests := []struct {
		width, height, tileSize int
		wantTiles               int
	}{
		{64, 64, 32, 4},
		{65, 64, 32, 6},
		{10, 10, 32, 1},
		{100, 1, 7, 15},
	}
	for _, tt := range tests {
		tiles := NewTileGrid(tt.width, tt.height, tt.tileSize)
		if len(tiles) != tt.wantTiles {
			t.Errorf("%dx%d by %d: %d tiles, want %d", tt.width, tt.height, tt.tileSize, len(tiles), tt.wantTiles)
		}

		covered := 0
		for i, tile := range tiles {
			if tile.ID != i {
				t.Errorf("tile %d has ID %d", i, tile.ID)
			}
			if !tile.Bounds.In(image.Rect(0, 0, tt.width, tt.height)) {
				t.Errorf("tile %v outside the image", tile.Bounds)
			}
			covered += tile.Bounds.Dx() * tile.Bounds.Dy()
		}
		if covered != tt.width*tt.height {
			t.Errorf("%dx%d by %d: tiles cover %d pixels", tt.width, tt.height, tt.tileSize, covered)
		}
	}
}

func TestRenderTileBounds(t *testing.T) {
	sd := scene.NewLayeredFilterScene()
	camera := NewCamera(sd.Camera, 8, 8)
	tr := NewTileRenderer(trace.NewEngine(sd, nil, trace.Options{}), camera)

	pixels := make([][]PixelStats, 8)
	for y := range pixels {
		pixels[y] = make([]PixelStats, 8)
	}
	bounds := image.Rect(2, 2, 6, 5)
	stats, err := tr.RenderTileBounds(bounds, pixels, rand.New(rand.NewSource(1)), 3)
	if err != nil {
		t.Fatalf("RenderTileBounds: %v", err)
	}
	if stats.TotalPixels != 12 || stats.TotalSamples != 36 {
		t.Errorf("stats = %+v, want 12 pixels with 36 samples", stats)
	}
	for y := range pixels {
		for x := range pixels[y] {
			want := 0
			if (image.Point{X: x, Y: y}).In(bounds) {
				want = 3
			}
			if pixels[y][x].SampleCount != want {
				t.Errorf("pixel (%d,%d) has %d samples, want %d", x, y, pixels[y][x].SampleCount, want)
			}
		}
	}

	// a second call tops pixels up to the new target only
	stats, err = tr.RenderTileBounds(bounds, pixels, rand.New(rand.NewSource(1)), 4)
	if err != nil {
		t.Fatalf("RenderTileBounds: %v", err)
	}
	if stats.TotalSamples != 12 {
		t.Errorf("top-up took %d samples, want 12", stats.TotalSamples)
	}
}

func TestRenderProducesImageAndStats(t *testing.T) {
	sd := scene.NewDefaultScene()
	logger := &bufferLogger{}
	cfg := smallConfig(3)
	cfg.Samples, cfg.Passes = 4, 2

	var passes []PassResult
	img, stats, err := NewRaytracer(sd, cfg, logger).Render(context.Background(), func(p PassResult) {
		passes = append(passes, p)
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if img.Bounds() != image.Rect(0, 0, cfg.Width, cfg.Height) {
		t.Errorf("image bounds = %v", img.Bounds())
	}
	if len(passes) != 2 || !passes[1].IsLast || passes[0].IsLast {
		t.Fatalf("passes = %d, last flags wrong", len(passes))
	}
	if passes[0].Stats.AverageSamples != 2 || passes[1].Stats.AverageSamples != 4 {
		t.Errorf("samples per pass = %g, %g, want 2, 4", passes[0].Stats.AverageSamples, passes[1].Stats.AverageSamples)
	}

	pixels := uint64(cfg.Width * cfg.Height)
	if stats.Trace.Rays < pixels*4 {
		t.Errorf("traced %d rays for %d camera samples", stats.Trace.Rays, pixels*4)
	}
	if stats.Trace.ShadowRayTests == 0 || stats.ObjectTests == 0 {
		t.Errorf("worker statistics not merged: %+v", stats)
	}
	if len(logger.lines) == 0 {
		t.Error("nothing logged")
	}

	lit := false
	for _, v := range img.Pix {
		if v != 0 && v != 255 {
			lit = true
			break
		}
	}
	if !lit {
		t.Error("image has no shaded pixels")
	}
}

func TestRenderIsDeterministicWithOneWorker(t *testing.T) {
	render := func() []byte {
		img, _, err := NewRaytracer(scene.NewShadowScene(), smallConfig(1), &bufferLogger{}).Render(context.Background(), nil)
		if err != nil {
			t.Fatalf("Render: %v", err)
		}
		return img.Pix
	}
	a, b := render(), render()
	if string(a) != string(b) {
		t.Error("two renders of the same scene differ")
	}
}

func TestBoundingMethodsRenderTheSameImage(t *testing.T) {
	var want []byte
	for _, m := range []scene.BoundingMethod{scene.BruteForce, scene.SlabTree, scene.BSPTree} {
		sd := scene.NewShadowScene()
		sd.Bounding = m
		img, _, err := NewRaytracer(sd, smallConfig(1), &bufferLogger{}).Render(context.Background(), nil)
		if err != nil {
			t.Fatalf("method %d: %v", m, err)
		}
		if want == nil {
			want = img.Pix
			continue
		}
		if string(img.Pix) != string(want) {
			t.Errorf("method %d renders a different image", m)
		}
	}
}

func TestRenderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewRaytracer(scene.NewDefaultScene(), smallConfig(2), &bufferLogger{}).Render(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenderReportsShadingErrors(t *testing.T) {
	fresnel := material.NewFinish()
	fresnel.ReflectionModel = material.FresnelReflection
	fresnel.ReflectionMax = core.White

	sd := scene.NewSceneData()
	sd.Camera.LookAt = core.Vec3{}
	sd.Add(geometry.NewSphere(core.Vec3{}, 1.5, material.NewPlainTexture(material.NewPlainPigment(core.Opaque(core.White)), fresnel)))
	sd.AddLight(lights.NewPointLight(core.NewVec3(0, 5, -5), core.White))

	_, _, err := NewRaytracer(sd, smallConfig(2), &bufferLogger{}).Render(context.Background(), nil)
	if !errors.Is(err, core.ErrFresnelWithoutInterior) {
		t.Errorf("error = %v, want ErrFresnelWithoutInterior", err)
	}
}

func TestRenderRejectsInvalidScene(t *testing.T) {
	sd := scene.NewDefaultScene()
	sd.MaxTraceLevel = 0
	_, _, err := NewRaytracer(sd, smallConfig(1), &bufferLogger{}).Render(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "invalid scene") {
		t.Errorf("error = %v, want an invalid scene error", err)
	}
}

func TestSamplesForPass(t *testing.T) {
	rt := NewRaytracer(scene.NewSceneData(), Config{Width: 1, Height: 1, Samples: 10, Passes: 3}, &bufferLogger{})
	want := []int{3, 6, 10}
	for i, w := range want {
		if got := rt.samplesForPass(i + 1); got != w {
			t.Errorf("pass %d: %d samples, want %d", i+1, got, w)
		}
	}

	// more passes than samples are capped
	rt = NewRaytracer(scene.NewSceneData(), Config{Width: 1, Height: 1, Samples: 2, Passes: 5}, &bufferLogger{})
	if rt.config.Passes != 2 {
		t.Errorf("passes = %d, want 2", rt.config.Passes)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.Render.Width, cfg.Render.Samples, cfg.Render.Workers = 33, 7, 2
	rc := ConfigFrom(cfg)
	if rc.Width != 33 || rc.Samples != 7 || rc.NumWorkers != 2 || rc.Height != cfg.Render.Height {
		t.Errorf("ConfigFrom = %+v", rc)
	}
}
