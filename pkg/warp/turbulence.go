package warp

import (
	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

// displace is shared by both turbulence warps
func displace(p core.Vec3, t *noise.Turbulence) core.Vec3 {
	return p.Add(noise.DTurbulence(p, t).MultiplyVec(t.Amplitude))
}

// Turbulence displaces points by vector turbulence
type Turbulence struct {
	noNormals
	noise.Turbulence
}

// NewTurbulence creates a turbulence warp with default octaves
func NewTurbulence(amplitude core.Vec3) *Turbulence {
	t := &Turbulence{Turbulence: noise.DefaultTurbulence()}
	t.Amplitude = amplitude
	return t
}

func (w *Turbulence) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	return displace(p, &w.Turbulence), true
}

func (w *Turbulence) Clone() Warp {
	c := *w
	return &c
}

// ClassicTurbulence is the turbulence attached directly to a pattern. When
// HandledByPattern is set the pattern reads the parameters itself (marble,
// wood, agate and friends) and the warp leaves points alone.
type ClassicTurbulence struct {
	noNormals
	noise.Turbulence
	HandledByPattern bool
}

// NewClassicTurbulence creates a pattern-level turbulence
func NewClassicTurbulence(amplitude core.Vec3, handledByPattern bool) *ClassicTurbulence {
	t := &ClassicTurbulence{Turbulence: noise.DefaultTurbulence(), HandledByPattern: handledByPattern}
	t.Amplitude = amplitude
	return t
}

func (w *ClassicTurbulence) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	if w.HandledByPattern {
		return p, false
	}
	return displace(p, &w.Turbulence), true
}

func (w *ClassicTurbulence) Clone() Warp {
	c := *w
	return &c
}
