package renderer

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/trace"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels    int     // Total number of pixels rendered
	TotalSamples   int     // Total number of camera rays traced
	AverageSamples float64 // Average samples per pixel
	ObjectTests    uint64  // Exact ray/object intersection tests
	Trace          trace.Stats
}

// Merge accumulates the counters of o
func (s *RenderStats) Merge(o RenderStats) {
	s.TotalPixels += o.TotalPixels
	s.TotalSamples += o.TotalSamples
	s.ObjectTests += o.ObjectTests
	s.Trace.Add(o.Trace)
	if s.TotalPixels > 0 {
		s.AverageSamples = float64(s.TotalSamples) / float64(s.TotalPixels)
	}
}

// PixelStats accumulates the samples of a single pixel
type PixelStats struct {
	ColourAccum core.Colour
	SampleCount int
}

// AddSample adds a new colour sample to the pixel
func (ps *PixelStats) AddSample(c core.Colour) {
	ps.ColourAccum = ps.ColourAccum.Add(c)
	ps.SampleCount++
}

// Colour returns the current average colour of the pixel
func (ps *PixelStats) Colour() core.Colour {
	if ps.SampleCount == 0 {
		return core.Colour{}
	}
	return ps.ColourAccum.Divide(float64(ps.SampleCount))
}
