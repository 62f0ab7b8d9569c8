package warp

import (
	"math"

	"github.com/df07/go-trace-core/pkg/core"
)

// Repeat tiles a slab of pattern space along one axis
type Repeat struct {
	noNormals
	Axis   int
	Width  float64
	Offset core.Vec3
	Flip   core.Vec3
}

// NewRepeat creates a repeat warp with no offset and no flipping
func NewRepeat(axis int, width float64) *Repeat {
	return &Repeat{Axis: axis, Width: width, Flip: core.NewVec3(1, 1, 1)}
}

func (w *Repeat) WarpPoint(p core.Vec3) (core.Vec3, bool) {
	// The block number is kept in single precision like the scene format
	block := float32(math.Floor(p.Get(w.Axis) / w.Width))

	p = p.Set(w.Axis, p.Get(w.Axis)-float64(block)*w.Width)

	if int(block)&1 != 0 {
		p = p.MultiplyVec(w.Flip)
		if w.Flip.Get(w.Axis) < 0 {
			p = p.Set(w.Axis, p.Get(w.Axis)+w.Width)
		}
	}

	return p.Add(w.Offset.Multiply(float64(block))), true
}

func (w *Repeat) Clone() Warp {
	c := *w
	return &c
}
