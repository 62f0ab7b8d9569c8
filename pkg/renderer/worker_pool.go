package renderer

import (
	"context"
	"runtime"

	"gopkg.in/tomb.v2"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/intersect"
	"github.com/df07/go-trace-core/pkg/scene"
	"github.com/df07/go-trace-core/pkg/trace"
)

// TileTask represents a tile rendering task for the worker pool
type TileTask struct {
	Tile          *Tile
	PassNumber    int
	TargetSamples int
	TaskID        int            // Index of the tile, echoed in the result
	PixelStats    [][]PixelStats // Shared pixel stats array to write to
}

// TileResult contains the result from rendering a tile
type TileResult struct {
	TaskID int
	Stats  RenderStats
	Error  error
}

// WorkerPool renders tiles in parallel. Each worker owns a trace engine;
// the intersection index is built once and shared. The workers live in a
// tomb: once it is dying every engine's cooperate check reports
// core.ErrCancelled and the trace in progress unwinds.
type WorkerPool struct {
	tomb        *tomb.Tomb
	taskQueue   chan TileTask
	resultQueue chan TileResult
	workers     []*Worker
	started     bool
}

// Worker handles individual tile rendering tasks
type Worker struct {
	ID       int
	renderer *TileRenderer
	engine   *trace.Engine
	pool     *WorkerPool
}

// NewWorkerPool creates numWorkers workers, or one per CPU when
// numWorkers is not positive. Cancelling ctx kills the pool. queueSize
// bounds the tasks of one pass.
func NewWorkerPool(ctx context.Context, sd *scene.SceneData, camera *Camera, numWorkers, queueSize int, seed int64) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	t, _ := tomb.WithContext(ctx)
	wp := &WorkerPool{
		tomb:        t,
		taskQueue:   make(chan TileTask, queueSize),
		resultQueue: make(chan TileResult, queueSize),
	}

	ix := intersect.NewIndex(sd.Objects, sd.Bounding)
	for i := 0; i < numWorkers; i++ {
		engine := trace.NewEngine(sd, ix, trace.Options{
			Cooperate: wp.cooperate,
			Seed:      seed + int64(i)*7919,
		})
		wp.workers = append(wp.workers, &Worker{
			ID:       i,
			renderer: NewTileRenderer(engine, camera),
			engine:   engine,
			pool:     wp,
		})
	}
	return wp
}

// cooperate is polled by the engines while they trace
func (wp *WorkerPool) cooperate() error {
	select {
	case <-wp.tomb.Dying():
		return core.ErrCancelled
	default:
		return nil
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	if wp.started {
		return
	}
	wp.started = true
	// tomb.Go panics once every tracked goroutine has returned
	wp.tomb.Go(func() error {
		for _, w := range wp.workers {
			wp.tomb.Go(w.run)
		}
		return nil
	})
}

// Kill stops the workers at their next cooperate check. The first
// non-nil reason is what Stop returns.
func (wp *WorkerPool) Kill(reason error) {
	wp.tomb.Kill(reason)
}

// Stop lets the workers drain the queue, waits for them and returns the
// reason the pool died, nil after a clean shutdown
func (wp *WorkerPool) Stop() error {
	close(wp.taskQueue)
	if !wp.started {
		return nil
	}
	err := wp.tomb.Wait()
	close(wp.resultQueue)
	return err
}

// SubmitTask queues a tile task. It reports false once the pool is dying.
func (wp *WorkerPool) SubmitTask(task TileTask) bool {
	select {
	case <-wp.tomb.Dying():
		return false
	default:
	}
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.tomb.Dying():
		return false
	}
}

// GetResult waits for the next completed tile. A dying pool yields a
// result carrying core.ErrCancelled.
func (wp *WorkerPool) GetResult() (TileResult, bool) {
	select {
	case result, ok := <-wp.resultQueue:
		return result, ok
	case <-wp.tomb.Dying():
		return TileResult{TaskID: -1, Error: core.ErrCancelled}, true
	}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return len(wp.workers)
}

// Stats merges the trace statistics of every worker. Call it after Stop.
func (wp *WorkerPool) Stats() RenderStats {
	var stats RenderStats
	for _, w := range wp.workers {
		stats.Trace.Add(w.engine.Stats())
		stats.ObjectTests += w.engine.ObjectTests()
	}
	return stats
}

// run is the main worker loop
func (w *Worker) run() error {
	dying := w.pool.tomb.Dying()
	for {
		select {
		case <-dying:
			return nil
		case task, ok := <-w.pool.taskQueue:
			if !ok {
				return nil
			}

			// Tiles never overlap, so workers can share the pixel array
			stats, err := w.renderer.RenderTileBounds(task.Tile.Bounds, task.PixelStats, task.Tile.Random, task.TargetSamples)
			if err != nil {
				return err
			}

			select {
			case w.pool.resultQueue <- TileResult{TaskID: task.TaskID, Stats: stats}:
			case <-dying:
				return nil
			}
		}
	}
}
