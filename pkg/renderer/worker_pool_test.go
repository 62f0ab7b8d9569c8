package renderer

import (
	"context"
	"errors"
	"testing"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/scene"
)

func TestWorkerPoolRendersSubmittedTiles(t *testing.T) {
	sd := scene.NewLayeredFilterScene()
	camera := NewCamera(sd.Camera, 16, 16)
	tiles := NewTileGrid(16, 16, 8)
	pixels := make([][]PixelStats, 16)
	for y := range pixels {
		pixels[y] = make([]PixelStats, 16)
	}

	pool := NewWorkerPool(context.Background(), sd, camera, 2, len(tiles), 1)
	if pool.GetNumWorkers() != 2 {
		t.Fatalf("workers = %d, want 2", pool.GetNumWorkers())
	}
	pool.Start()
	for id, tile := range tiles {
		if !pool.SubmitTask(TileTask{Tile: tile, PassNumber: 1, TargetSamples: 1, TaskID: id, PixelStats: pixels}) {
			t.Fatal("pool refused a task")
		}
	}

	seen := make(map[int]bool)
	for range tiles {
		result, ok := pool.GetResult()
		if !ok || result.Error != nil {
			t.Fatalf("result %+v, ok %v", result, ok)
		}
		if seen[result.TaskID] {
			t.Errorf("tile %d reported twice", result.TaskID)
		}
		seen[result.TaskID] = true
		if result.Stats.TotalSamples != 64 {
			t.Errorf("tile %d took %d samples, want 64", result.TaskID, result.Stats.TotalSamples)
		}
	}
	if err := pool.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	if got := pool.Stats().Trace.Rays; got < 256 {
		t.Errorf("merged %d rays, want at least 256", got)
	}
}

func TestWorkerPoolCooperateAfterKill(t *testing.T) {
	sd := scene.NewLayeredFilterScene()
	pool := NewWorkerPool(context.Background(), sd, NewCamera(sd.Camera, 4, 4), 1, 1, 1)

	if err := pool.cooperate(); err != nil {
		t.Fatalf("live pool cooperate = %v", err)
	}
	pool.Start()
	pool.Kill(nil)
	if err := pool.cooperate(); !errors.Is(err, core.ErrCancelled) {
		t.Errorf("dying pool cooperate = %v, want ErrCancelled", err)
	}
	if pool.SubmitTask(TileTask{}) {
		t.Error("dying pool accepted a task")
	}
	if err := pool.Stop(); err != nil {
		t.Errorf("Stop after Kill(nil) = %v", err)
	}
}

func TestWorkerPoolFollowsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sd := scene.NewLayeredFilterScene()
	pool := NewWorkerPool(ctx, sd, NewCamera(sd.Camera, 4, 4), 1, 1, 1)
	pool.Start()
	cancel()
	<-pool.tomb.Dying()

	if err := pool.Stop(); !errors.Is(err, context.Canceled) {
		t.Errorf("Stop = %v, want context.Canceled", err)
	}
	if err := pool.cooperate(); !errors.Is(err, core.ErrCancelled) {
		t.Errorf("cooperate = %v, want ErrCancelled", err)
	}
}

func TestRenderStatsMerge(t *testing.T) {
	var total RenderStats
	total.Merge(RenderStats{TotalPixels: 4, TotalSamples: 8, ObjectTests: 10})
	total.Merge(RenderStats{TotalPixels: 4, TotalSamples: 16, ObjectTests: 5})

	if total.TotalPixels != 8 || total.TotalSamples != 24 || total.ObjectTests != 15 {
		t.Errorf("merged %+v", total)
	}
	if total.AverageSamples != 3 {
		t.Errorf("average samples = %g, want 3", total.AverageSamples)
	}
}

func TestPixelStats(t *testing.T) {
	var ps PixelStats
	if !ps.Colour().IsZero() {
		t.Error("empty pixel is not black")
	}
	ps.AddSample(core.NewColour(1, 0, 0.5))
	ps.AddSample(core.NewColour(0, 1, 0.5))
	if c := ps.Colour(); c != core.NewColour(0.5, 0.5, 0.5) {
		t.Errorf("average = %v", c)
	}
}
