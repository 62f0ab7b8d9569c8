package pattern

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

// NumberOfWaves is the number of wave sources summed by ripples and waves
const NumberOfWaves = 10

// facetsNeighbours is the size of the 5x5x5 block minus the cells more
// than a knight's move away
const facetsNeighbours = 81

// Context holds the per-engine state patterns read while evaluating. It is
// owned by one trace engine and must not be shared between workers.
type Context struct {
	// Generator replaces noise.Default on every pattern
	Generator noise.Generator

	WaveFrequencies []float64
	WaveSources     []core.Vec3

	facetsSeed  int
	facetsCube  [facetsNeighbours]core.Vec3
	facetsCount int
}

// NewContext creates a context for the given scene-wide noise generator
func NewContext(g noise.Generator) *Context {
	noise.Initialize()
	freqs, sources := noise.InitializeWaves(NumberOfWaves)
	return &Context{
		Generator:       g.Resolve(noise.Original),
		WaveFrequencies: freqs,
		WaveSources:     sources,
		facetsSeed:      math.MinInt,
	}
}

// resolve returns the generator a pattern actually uses
func (c *Context) resolve(g noise.Generator) noise.Generator {
	if c == nil {
		return g.Resolve(noise.Original)
	}
	return g.Resolve(c.Generator)
}
