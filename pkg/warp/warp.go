// Package warp maps evaluation points into pattern space and carries
// perturbed normals between the two spaces.
package warp

import (
	"fmt"

	"github.com/df07/go-trace-core/pkg/core"
)

// CoordinateLimit bounds every warped coordinate
const CoordinateLimit = 1.0e17

// Warp is one step of a warp list. The bool results report whether the
// warp did anything; warps that define no normal mapping return false from
// WarpNormal and UnwarpNormal and leave the normal untouched.
type Warp interface {
	WarpPoint(p core.Vec3) (core.Vec3, bool)
	WarpNormal(n core.Vec3) (core.Vec3, bool)
	UnwarpNormal(n core.Vec3) (core.Vec3, bool)
	Clone() Warp
}

// List holds warps in application order: the first element is applied to
// the evaluation point first
type List []Warp

// EPoint walks the list forward and clamps the result to CoordinateLimit
func (l List) EPoint(p core.Vec3) core.Vec3 {
	for _, w := range l {
		p, _ = w.WarpPoint(p)
	}
	return clampPoint(p)
}

// Normal maps a world-space normal into pattern space. The list is walked
// in the same order as points, since each transform contributes its
// transpose to the normal map. Unless dontScaleBumps is set the normal is
// normalised before and after.
func (l List) Normal(n core.Vec3, dontScaleBumps bool) core.Vec3 {
	if !dontScaleBumps {
		n = n.Normalize()
	}
	for _, w := range l {
		n, _ = w.WarpNormal(n)
	}
	if !dontScaleBumps {
		n = n.Normalize()
	}
	return n
}

// UnwarpNormal carries a pattern-space normal back to world space by
// walking the list in reverse
func (l List) UnwarpNormal(n core.Vec3, dontScaleBumps bool) core.Vec3 {
	if !dontScaleBumps {
		n = n.Normalize()
	}
	for i := len(l) - 1; i >= 0; i-- {
		n, _ = l[i].UnwarpNormal(n)
	}
	if !dontScaleBumps {
		n = n.Normalize()
	}
	return n
}

// Clone deep-copies every warp
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i, w := range l {
		out[i] = w.Clone()
	}
	return out
}

// SupportsNormals reports whether every warp defines a normal mapping
func (l List) SupportsNormals() bool {
	for _, w := range l {
		switch w.(type) {
		case *Identity, *Transform:
		default:
			return false
		}
	}
	return true
}

// ClassicTurbulence returns the pattern-level turbulence, which is always
// the last warp applied, or nil
func (l List) ClassicTurbulence() *ClassicTurbulence {
	if len(l) == 0 {
		return nil
	}
	t, _ := l[len(l)-1].(*ClassicTurbulence)
	return t
}

func clampPoint(p core.Vec3) core.Vec3 {
	for axis := 0; axis < 3; axis++ {
		v := p.Get(axis)
		if v > CoordinateLimit {
			p = p.Set(axis, CoordinateLimit)
		} else if v < -CoordinateLimit {
			p = p.Set(axis, -CoordinateLimit)
		}
	}
	return p
}

// New creates a warp with default parameters by its scene name
func New(name string) (Warp, error) {
	switch name {
	case "identity":
		return &Identity{}, nil
	case "transform":
		return NewTransform(Identity4()), nil
	case "repeat":
		return NewRepeat(0, 1), nil
	case "black_hole":
		return NewBlackHole(core.Vec3{}, 1), nil
	case "turbulence":
		return NewTurbulence(core.Vec3{}), nil
	case "cylindrical":
		return &Cylindrical{Mapping: DefaultMapping()}, nil
	case "spherical":
		return &Spherical{Mapping: DefaultMapping()}, nil
	case "toroidal":
		return &Toroidal{Mapping: DefaultMapping(), MajorRadius: 1}, nil
	case "planar":
		return &Planar{Orientation: core.NewVec3(0, 0, 1)}, nil
	case "cubic":
		return &Cubic{}, nil
	}
	return nil, fmt.Errorf("%q: %w", name, core.ErrUnknownWarp)
}

// Identity leaves points and normals unchanged
type Identity struct{}

func (w *Identity) WarpPoint(p core.Vec3) (core.Vec3, bool)    { return p, true }
func (w *Identity) WarpNormal(n core.Vec3) (core.Vec3, bool)   { return n, true }
func (w *Identity) UnwarpNormal(n core.Vec3) (core.Vec3, bool) { return n, true }
func (w *Identity) Clone() Warp                                { return &Identity{} }

// noNormals is embedded by warps without a normal mapping
type noNormals struct{}

func (noNormals) WarpNormal(n core.Vec3) (core.Vec3, bool)   { return n, false }
func (noNormals) UnwarpNormal(n core.Vec3) (core.Vec3, bool) { return n, false }
