package warp

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
	"github.com/df07/go-trace-core/pkg/noise"
)

const repeatEpsilon = 1e-10

// BlackHole pulls points towards (or pushes them from) a centre
type BlackHole struct {
	noNormals
	Center   core.Vec3
	Radius   float64
	Strength float64
	Power    float64
	Inverted bool

	// Repeat tiles the black hole on a lattice given by RepeatVector
	Repeat       bool
	RepeatVector core.Vec3

	// Uncertain jitters each tile's centre by up to Uncertainty
	Uncertain   bool
	Uncertainty core.Vec3
}

// NewBlackHole creates a black hole with unit strength and power
func NewBlackHole(center core.Vec3, radius float64) *BlackHole {
	return &BlackHole{Center: center, Radius: radius, Strength: 1, Power: 1}
}

func (w *BlackHole) tileCenter(p core.Vec3) core.Vec3 {
	c := w.Center
	var block [3]int
	for axis := 0; axis < 3; axis++ {
		if r := w.RepeatVector.Get(axis); r >= repeatEpsilon {
			block[axis] = int(math.Floor(p.Get(axis) / r))
		}
	}

	if w.Uncertain {
		seed := noise.Hash3d(block[0], block[1], block[2])
		c.X += core.WarpRands(seed) * w.Uncertainty.X
		c.Y += core.WarpRands(seed+1) * w.Uncertainty.Y
		c.Z += core.WarpRands(seed+2) * w.Uncertainty.Z
	}

	c.X += w.RepeatVector.X * float64(block[0])
	c.Y += w.RepeatVector.Y * float64(block[1])
	c.Z += w.RepeatVector.Z * float64(block[2])
	return c
}

func (w *BlackHole) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	c := w.Center
	if w.Repeat {
		c = w.tileCenter(p)
	}

	delta := p.Subtract(c)
	length := delta.Length()
	if length >= w.Radius {
		return p, true
	}

	// 0 on the rim, 1 at the centre
	proximity := (w.Radius - length) / w.Radius
	s := math.Min(1.0, math.Pow(proximity, w.Power)*w.Strength)
	if w.Inverted {
		s = -s
	}
	return p.Add(delta.Multiply(s)), true
}

func (w *BlackHole) Clone() Warp {
	c := *w
	return &c
}
